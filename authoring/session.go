// Package authoring implements the campaign editing session: a mutable
// clone of a loaded content database, edited through undoable commands
// and written back through the loader's encoder.
package authoring

import (
	"fmt"
	"sort"

	"github.com/antares-rpg/antares/content"
	"github.com/antares-rpg/antares/loader"
	"github.com/antares-rpg/antares/validate"
)

// historyLimit bounds the undo stack; the oldest command is evicted
// first.
const historyLimit = 50

// Session is one editing session over a campaign. The loaded database
// is cloned so the running game never sees half-finished edits.
type Session struct {
	buffer *content.Database

	history []Command
	redo    []Command
	dirty   map[string]bool

	// BlockOnErrors refuses Save while the validator reports errors.
	BlockOnErrors bool
}

// NewSession clones the database into an editing buffer.
func NewSession(db *content.Database) *Session {
	return &Session{
		buffer:        db.Clone(),
		dirty:         map[string]bool{},
		BlockOnErrors: true,
	}
}

// DB exposes the editing buffer for reads. Mutate through Apply.
func (s *Session) DB() *content.Database {
	return s.buffer
}

// Apply executes a command and pushes it onto the undo stack. Any
// redoable commands are discarded.
func (s *Session) Apply(cmd Command) error {
	if err := cmd.Execute(s.buffer); err != nil {
		return err
	}
	s.history = append(s.history, cmd)
	if len(s.history) > historyLimit {
		s.history = s.history[1:]
	}
	s.redo = nil
	s.dirty[commandKind(cmd)] = true
	return nil
}

// CanUndo reports whether an undo is available.
func (s *Session) CanUndo() bool { return len(s.history) > 0 }

// CanRedo reports whether a redo is available.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// Undo reverses the most recent command and returns its description.
func (s *Session) Undo() (string, error) {
	if len(s.history) == 0 {
		return "", fmt.Errorf("nothing to undo")
	}
	cmd := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	cmd.Undo(s.buffer)
	s.redo = append(s.redo, cmd)
	s.dirty[commandKind(cmd)] = true
	return cmd.Description(), nil
}

// Redo re-executes the most recently undone command.
func (s *Session) Redo() (string, error) {
	if len(s.redo) == 0 {
		return "", fmt.Errorf("nothing to redo")
	}
	cmd := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	if err := cmd.Execute(s.buffer); err != nil {
		return "", err
	}
	s.history = append(s.history, cmd)
	s.dirty[commandKind(cmd)] = true
	return cmd.Description(), nil
}

// HistoryDescriptions lists the undoable commands, oldest first.
func (s *Session) HistoryDescriptions() []string {
	out := make([]string, len(s.history))
	for i, cmd := range s.history {
		out[i] = cmd.Description()
	}
	return out
}

// Dirty reports whether any edits are unsaved.
func (s *Session) Dirty() bool {
	return len(s.dirty) > 0
}

// DirtyKinds returns the entity kinds with unsaved edits, sorted.
func (s *Session) DirtyKinds() []string {
	kinds := make([]string, 0, len(s.dirty))
	for k := range s.dirty {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Validate runs the cross-reference validator over the buffer.
func (s *Session) Validate() []validate.Diagnostic {
	return validate.Validate(s.buffer)
}

// Save validates the buffer and writes it to the campaign directory in
// the loader's format. Validation errors block the save while
// BlockOnErrors is set; the buffer and history are preserved either
// way, so no edit is ever lost to a failed save.
func (s *Session) Save(dir string) error {
	if s.BlockOnErrors {
		ds := s.Validate()
		if validate.HasErrors(ds) {
			errors, _, _ := validate.CountBySeverity(ds)
			return fmt.Errorf("campaign has %d validation error(s); fix them or disable blocking", errors)
		}
	}
	if err := loader.Save(s.buffer, dir); err != nil {
		return err
	}
	s.dirty = map[string]bool{}
	return nil
}
