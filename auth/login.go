package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

var BadPassword error = errors.New("wrong operator password")

const cookieName = "session"

// Session marks a browser as belonging to the event host.
type Session struct {
	Operator    string
	SessionDate time.Time
}

type basicSession struct {
	Operator    string `json:"operator"`
	SessionDate string `json:"session_date"`
}

func (s *Session) Update() {
	s.SessionDate = time.Now()
}

func (s Session) MarshalJSON() ([]byte, error) {
	bs := basicSession{
		Operator:    s.Operator,
		SessionDate: s.SessionDate.Format(time.RFC3339),
	}

	return json.Marshal(bs)
}

func (s *Session) UnmarshalJSON(j []byte) error {
	var bs basicSession
	err := json.Unmarshal(j, &bs)
	if err != nil {
		return err
	}

	session_date, err := time.Parse(time.RFC3339, bs.SessionDate)
	if err != nil {
		return err
	}

	*s = Session{
		Operator:    bs.Operator,
		SessionDate: session_date,
	}

	return nil
}

var (
	mu         sync.RWMutex
	gcm_cipher cipher.AEAD
	password   string
)

// Init derives the cookie key from key and coder and sets the operator
// password. An empty password turns the operator check off.
func Init(key, coder, operator_password string) error {
	mac := hmac.New(sha256.New, []byte(coder))
	mac.Write([]byte(key))
	aes_key := mac.Sum(nil)[0:32]

	block, err := aes.NewCipher(aes_key)
	if err != nil {
		return err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	mu.Lock()
	gcm_cipher = gcm
	password = operator_password
	mu.Unlock()
	return nil
}

// RandomKey makes a throwaway session key for when none is configured.
func RandomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func getCipher() cipher.AEAD {
	mu.RLock()
	defer mu.RUnlock()
	if gcm_cipher == nil {
		panic("call Init first!")
	}
	return gcm_cipher
}

// Required reports whether an operator password has been configured.
func Required() bool {
	mu.RLock()
	defer mu.RUnlock()
	return password != ""
}

// Login checks the operator password and returns a fresh session.
func Login(name, attempt string) (*Session, error) {
	mu.RLock()
	want := password
	mu.RUnlock()

	if subtle.ConstantTimeCompare([]byte(want), []byte(attempt)) != 1 {
		return nil, BadPassword
	}

	return &Session{Operator: name, SessionDate: time.Now()}, nil
}

var BadCookie error = errors.New("session cookie is malformed or was not sealed with this key")

// seal encrypts plaintext under a fresh nonce and returns nonce||ciphertext as
// url-safe base64.
func seal(plaintext []byte) (string, error) {
	gcm := getCipher()

	nonce := make([]byte, gcm.NonceSize(), gcm.NonceSize()+len(plaintext)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(gcm.Seal(nonce, nonce, plaintext, nil)), nil
}

// open reverses seal. Every failure, whether bad base64, a short blob or a
// failed tag check, is reported as BadCookie.
func open(token string) ([]byte, error) {
	gcm := getCipher()

	blob, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(blob) < gcm.NonceSize() {
		return nil, BadCookie
	}

	nonce, sealed := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, BadCookie
	}
	return plaintext, nil
}

func EncryptAndSign(s Session) (string, error) {
	plaintext, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return seal(plaintext)
}

func DecryptAndValidate(token string) (Session, error) {
	var s Session

	plaintext, err := open(token)
	if err != nil {
		return s, err
	}

	if err := json.Unmarshal(plaintext, &s); err != nil {
		return s, fmt.Errorf("%w: %v", BadCookie, err)
	}
	return s, nil
}

// sessions last a week from the last time the cookie was written
var session_lifetime time.Duration = time.Hour * 24 * 7

func (s Session) Expired(now time.Time) bool {
	return now.Sub(s.SessionDate) > session_lifetime
}

// Get returns the operator session carried by req, or nil if there is none,
// it does not open, or it has gone stale.
func Get(req *http.Request) *Session {
	cookie, err := req.Cookie(cookieName)
	if err != nil {
		return nil
	}

	session, err := DecryptAndValidate(cookie.Value)
	if err != nil || session.Expired(time.Now()) {
		return nil
	}
	return &session
}

func Put(w http.ResponseWriter, s *Session) error {
	s.Update()
	value, err := EncryptAndSign(*s)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.SessionDate.Add(session_lifetime),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
