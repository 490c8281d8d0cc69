package loader_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

var errInjected = fmt.Errorf("injected: %w", surveyetl.ErrDatabase)

// fakeSession records every call. Inserted rows move to committed on Commit.
type fakeSession struct {
	events    []string
	pending   []surveyetl.Answer
	committed []surveyetl.Answer
	runs      []surveyetl.LoadResult
	purged    int64
	released  bool

	// failInsert fails the n-th InsertAnswers call (1-based) when set.
	failInsert int
	inserts    int
}

func (f *fakeSession) EnsureSurvey(ctx context.Context, surveyNumber, year int) error {
	f.events = append(f.events, fmt.Sprintf("ensure %d/%d", surveyNumber, year))
	return nil
}

func (f *fakeSession) DeleteSurvey(ctx context.Context, surveyNumber int) (int64, error) {
	f.events = append(f.events, fmt.Sprintf("delete %d", surveyNumber))
	return f.purged, nil
}

func (f *fakeSession) InsertAnswers(ctx context.Context, answers []surveyetl.Answer) (int64, error) {
	f.inserts++
	if f.failInsert == f.inserts {
		f.events = append(f.events, "insert failed")
		return 0, errInjected
	}
	f.events = append(f.events, fmt.Sprintf("insert %d", len(answers)))
	f.pending = append(f.pending, answers...)
	return int64(len(answers)), nil
}

func (f *fakeSession) RecordRun(ctx context.Context, result surveyetl.LoadResult) error {
	f.events = append(f.events, "run")
	f.runs = append(f.runs, result)
	return nil
}

func (f *fakeSession) Commit(ctx context.Context) error {
	f.events = append(f.events, "commit")
	f.committed = append(f.committed, f.pending...)
	f.pending = nil
	return nil
}

func (f *fakeSession) Release(ctx context.Context) {
	if len(f.pending) > 0 {
		f.events = append(f.events, "rollback")
		f.pending = nil
	}
	f.events = append(f.events, "release")
	f.released = true
}

// fakeProvider hands out fresh sessions and keeps them for inspection.
type fakeProvider struct {
	sessions []*fakeSession
	next     func() *fakeSession
	err      error
}

func (p *fakeProvider) Acquire(ctx context.Context) (surveyetl.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	s := &fakeSession{}
	if p.next != nil {
		s = p.next()
	}
	p.sessions = append(p.sessions, s)
	return s, nil
}

func (p *fakeProvider) last() *fakeSession {
	if len(p.sessions) == 0 {
		panic(errors.New("no session acquired"))
	}
	return p.sessions[len(p.sessions)-1]
}
