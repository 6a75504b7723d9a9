package store

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupMode says how the grouping value is read.
type GroupMode string

const (
	// ByCount: the value is the number of groups wanted.
	ByCount GroupMode = "count"
	// BySize: the value is the number of people per group.
	BySize GroupMode = "size"
)

// ParseGroupMode falls back to ByCount for anything it does not recognise.
func ParseGroupMode(raw string) GroupMode {
	if GroupMode(strings.TrimSpace(raw)) == BySize {
		return BySize
	}
	return ByCount
}

// ParseGroupingValue reads the number box. Anything that is not a positive
// integer counts as 1.
func ParseGroupingValue(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ComputeGroupCount returns how many groups participant_count people make
// under mode. The result is never below 1.
func ComputeGroupCount(participant_count int, mode GroupMode, value int) int {
	if value < 1 {
		value = 1
	}

	var n int
	switch mode {
	case BySize:
		n = (participant_count + value - 1) / value
	default:
		n = value
		if n > participant_count {
			n = participant_count
		}
	}

	if n < 1 {
		n = 1
	}
	return n
}

// Shuffle returns a uniformly random permutation of participants (Fisher-Yates).
// The input slice is left alone.
func Shuffle(rng RNG, participants []Participant) []Participant {
	shuffled := make([]Participant, len(participants))
	copy(shuffled, participants)

	for i := len(shuffled) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Distribute deals shuffled out round-robin: position i goes to group
// i mod group_count. Sizes therefore differ by at most one. Groups are
// numbered from 1 and labelled with GroupLabel.
func Distribute(shuffled []Participant, group_count int) []Group {
	if group_count < 1 {
		group_count = 1
	}

	groups := make([]Group, group_count)
	for i := range groups {
		groups[i] = Group{
			Index:     i + 1,
			GroupName: GroupLabel(i + 1),
		}
	}

	for i, p := range shuffled {
		g := &groups[i%group_count]
		g.Members = append(g.Members, p)
	}
	return groups
}

// GroupLabel is the display name of the group with the given 1-based index.
func GroupLabel(index int) string {
	return fmt.Sprintf("第 %d 組", index)
}

// GenerateGroups shuffles participants and splits them according to mode and value.
func GenerateGroups(rng RNG, participants []Participant, mode GroupMode, value int) ([]Group, error) {
	if len(participants) == 0 {
		return nil, ErrEmptyParticipants
	}

	count := ComputeGroupCount(len(participants), mode, value)
	return Distribute(Shuffle(rng, participants), count), nil
}
