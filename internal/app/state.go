// Package app holds the grading state machine and the shell that drives it.
//
// State values are immutable snapshots: every transition takes the current
// state and returns the next one, which keeps the machine testable without a
// terminal or a network.
package app

import (
	"errors"

	"github.com/verte-zerg/cetgrade/internal/model"
)

var (
	// ErrBlankInput is returned when grading is triggered with a blank input.
	ErrBlankInput = errors.New("source text and translation are both required")
	// ErrGradeInFlight is returned when grading is triggered while loading.
	ErrGradeInFlight = errors.New("a grading request is already in flight")
)

// BlankInputMessage is the notice shown for ErrBlankInput.
const BlankInputMessage = "请同时输入中文原文和英文译文"

// Status is the grading state.
type Status int

// Grading states.
const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is the whole application state.
type State struct {
	Source      string
	Translation string
	Status      Status
	Result      *model.GradingResult
	ErrMsg      string
	LibraryOpen bool
	Library     []model.VocabularyItem

	// attempt identifies the outstanding grading request.
	attempt int
	// graded holds the texts sent by the last BeginGrade, or the restored
	// session texts. Result always belongs to these.
	graded model.GradingRequest
}

// Initial builds the startup state from persisted data. A session carrying a
// result starts in Success.
func Initial(session *model.Session, library []model.VocabularyItem) State {
	s := State{Status: Idle, Library: library}
	if s.Library == nil {
		s.Library = []model.VocabularyItem{}
	}
	if session == nil {
		return s
	}
	s.Source = session.SourceText
	s.Translation = session.TranslationText
	s.graded = model.GradingRequest{SourceText: session.SourceText, TranslationText: session.TranslationText}
	if session.Result != nil {
		result := *session.Result
		s.Result = &result
		s.Status = Success
	}
	return s
}

// WithInputs replaces both input texts. Inputs are frozen while loading.
func (s State) WithInputs(source, translation string) State {
	if s.Status == Loading {
		return s
	}
	s.Source = source
	s.Translation = translation
	return s
}

// Request returns the current inputs as a grading request.
func (s State) Request() model.GradingRequest {
	return model.GradingRequest{SourceText: s.Source, TranslationText: s.Translation}
}

// BeginGrade moves to Loading. The state is returned unchanged with
// ErrGradeInFlight while loading and with ErrBlankInput when an input is blank.
func (s State) BeginGrade() (State, error) {
	if s.Status == Loading {
		return s, ErrGradeInFlight
	}
	if s.Request().Blank() {
		return s, ErrBlankInput
	}
	s.Status = Loading
	s.ErrMsg = ""
	s.attempt++
	s.graded = s.Request()
	return s, nil
}

// Graded returns the texts the current result was produced for.
func (s State) Graded() model.GradingRequest {
	return s.graded
}

// Attempt identifies the request started by the last BeginGrade.
func (s State) Attempt() int {
	return s.attempt
}

// CompleteGrade stores result and moves to Success. Outcomes of a request
// other than the outstanding one are ignored.
func (s State) CompleteGrade(attempt int, result model.GradingResult) State {
	if s.Status != Loading || attempt != s.attempt {
		return s
	}
	s.Status = Success
	s.Result = &result
	s.ErrMsg = ""
	return s
}

// FailGrade moves to Error with msg and no result.
func (s State) FailGrade(attempt int, msg string) State {
	if s.Status != Loading || attempt != s.attempt {
		return s
	}
	s.Status = Error
	s.Result = nil
	s.ErrMsg = msg
	return s
}

// Reset clears inputs, result and error. The library is untouched.
func (s State) Reset() State {
	s.Source = ""
	s.Translation = ""
	s.Status = Idle
	s.Result = nil
	s.ErrMsg = ""
	s.graded = model.GradingRequest{}
	return s
}

// ToggleLibrary flips the library visibility.
func (s State) ToggleLibrary() State {
	s.LibraryOpen = !s.LibraryOpen
	return s
}

// WithLibrary replaces the vocabulary collection.
func (s State) WithLibrary(items []model.VocabularyItem) State {
	s.Library = items
	return s
}

// Session returns the record persisted after a successful grade. It pairs
// the result with the texts that were graded, not the live inputs.
func (s State) Session() model.Session {
	return model.Session{
		SourceText:      s.graded.SourceText,
		TranslationText: s.graded.TranslationText,
		Result:          s.Result,
	}
}
