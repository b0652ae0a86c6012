// Package session persists the state of an editing session between runs of
// the sedit shell: the buffer content, the cursor, and the file the session
// is editing.
package session

import (
	"fmt"
	"os"

	"github.com/dekarrin/rezi"
)

// Session is a snapshot of the shell's editing state.
type Session struct {
	// FilePath is the file the session is editing; may be empty for a
	// scratch session.
	FilePath string

	// Cursor is the token index the cursor was at.
	Cursor int

	// Text is the whole buffer content.
	Text string
}

// MarshalBinary converts the session into a slice of bytes that can be
// decoded with UnmarshalBinary.
func (s Session) MarshalBinary() ([]byte, error) {
	var enc []byte
	enc = append(enc, rezi.EncString(s.FilePath)...)
	enc = append(enc, rezi.EncInt(s.Cursor)...)
	enc = append(enc, rezi.EncString(s.Text)...)
	return enc, nil
}

// UnmarshalBinary takes a slice of bytes produced by MarshalBinary and
// decodes it into the session, overwriting all fields.
func (s *Session) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	s.FilePath, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("file path: %w", err)
	}
	data = data[n:]

	s.Cursor, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	data = data[n:]

	s.Text, _, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("text: %w", err)
	}

	return nil
}

// Save writes the session to the named file.
func Save(path string, s Session) error {
	if err := os.WriteFile(path, rezi.EncBinary(s), 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Load reads a session previously written with Save.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("reading session file: %w", err)
	}

	var s Session
	if _, err := rezi.DecBinary(data, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session file: %w", err)
	}
	return s, nil
}
