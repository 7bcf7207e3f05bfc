package workflow

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/societyhub/backend/internal/assets"
	"github.com/societyhub/backend/internal/backend"
)

type DocumentAPI interface {
	Documents(ctx context.Context, societyCode string) ([]backend.Document, error)
	PostDocument(ctx context.Context, draft backend.DocumentDraft) (*backend.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentShelf holds the society's shared documents.
type DocumentShelf struct {
	view
	api  DocumentAPI
	deps Deps

	mu        sync.Mutex
	uploading bool
	docs      []backend.Document
}

func NewDocumentShelf(ctx context.Context, api DocumentAPI, deps Deps) *DocumentShelf {
	return &DocumentShelf{view: newView(ctx), api: api, deps: deps.withDefaults()}
}

func (s *DocumentShelf) List(ctx context.Context) ([]backend.Document, error) {
	actor, err := s.deps.Identity.Current()
	if err != nil || actor.SocietyCode == "" {
		return nil, validation(MsgLoginRequired)
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()

	docs, err := s.api.Documents(ctx, actor.SocietyCode)
	if aliveErr := s.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		s.deps.Notifier.Failure(MsgLoadDocuments)
		docs = []backend.Document{}
		err = fetchFailure(err, MsgLoadDocuments)
	}
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return slices.Clone(docs), err
}

// Upload stores the file in the asset store and registers it as a document.
func (s *DocumentShelf) Upload(ctx context.Context, title string, file assets.File) (*backend.Document, error) {
	if strings.TrimSpace(title) == "" || len(file.Data) == 0 {
		return nil, validation(MsgFillAllFields)
	}
	actor, err := s.deps.Identity.Current()
	if err != nil {
		return nil, validation(MsgLoginRequired)
	}
	if !actor.IsStaff() {
		return nil, validation(MsgStaffOnly)
	}
	if s.deps.Uploader == nil {
		return nil, validation(MsgDocumentFailed)
	}

	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, validation(MsgBusy)
	}
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	ctx, cancel := s.bind(ctx)
	defer cancel()

	url, err := s.deps.Uploader.Upload(ctx, file)
	if aliveErr := s.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		s.deps.Notifier.Failure(MsgDocumentFailed)
		return nil, &Error{Kind: KindWrite, Message: MsgDocumentFailed, Err: err}
	}

	doc, err := s.api.PostDocument(ctx, backend.DocumentDraft{
		Title:       strings.TrimSpace(title),
		URL:         url,
		SocietyCode: actor.SocietyCode,
	})
	if aliveErr := s.alive(); aliveErr != nil {
		return nil, aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgDocumentFailed)
		s.deps.Notifier.Failure(we.Message)
		return nil, we
	}
	s.mu.Lock()
	s.docs = append(s.docs, *doc)
	s.mu.Unlock()
	s.deps.Notifier.Success(MsgDocumentUploaded)
	return doc, nil
}

func (s *DocumentShelf) Delete(ctx context.Context, id string) error {
	actor, err := s.deps.Identity.Current()
	if err != nil {
		return validation(MsgLoginRequired)
	}
	if !actor.IsStaff() {
		return validation(MsgStaffOnly)
	}
	ctx, cancel := s.bind(ctx)
	defer cancel()

	err = s.api.DeleteDocument(ctx, id)
	if aliveErr := s.alive(); aliveErr != nil {
		return aliveErr
	}
	if err != nil {
		we := writeFailure(err, MsgDocumentDelFailed)
		s.deps.Notifier.Failure(we.Message)
		return we
	}
	s.mu.Lock()
	s.docs = slices.DeleteFunc(s.docs, func(d backend.Document) bool { return d.ID == id })
	s.mu.Unlock()
	s.deps.Notifier.Success(MsgDocumentDeleted)
	return nil
}
