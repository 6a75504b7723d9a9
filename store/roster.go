package store

import (
	"strings"

	"github.com/google/uuid"
)

// DemoNames is the sample roster offered on the names tab. The last two
// entries repeat earlier names so duplicate detection has something to find.
var DemoNames = []string{
	"陳小明", "林美惠", "張大春", "王婉婷", "李志豪",
	"周杰倫", "蔡依林", "蕭敬騰", "林俊傑", "田馥甄",
	"郭台銘", "張忠謀", "黃仁勳", "蘇姿丰", "馬斯克",
	"奧特曼", "賈伯斯", "蓋茲", "陳小明", "林美惠",
}

// NewParticipants trims every name, drops the blank ones and gives each
// survivor a fresh identity. Identity is never derived from the name.
func NewParticipants(names []string) []Participant {
	participants := make([]Participant, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		participants = append(participants, Participant{
			Id:   uuid.NewString(),
			Name: name,
		})
	}
	return participants
}

// Duplicates lists every name that occurs more than once, in the order the
// name was first seen.
func Duplicates(participants []Participant) []string {
	counts := make(map[string]int, len(participants))
	var order []string
	for _, p := range participants {
		if counts[p.Name] == 0 {
			order = append(order, p.Name)
		}
		counts[p.Name]++
	}

	var dupes []string
	for _, name := range order {
		if counts[name] > 1 {
			dupes = append(dupes, name)
		}
	}
	return dupes
}

// RemoveDuplicates keeps the first participant carrying each name.
func RemoveDuplicates(participants []Participant) []Participant {
	seen := make(map[string]struct{}, len(participants))
	unique := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}
