package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/notices"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

type testNoticesService struct {
	listFn   func(viewer uuid.UUID, search string) ([]notices.NoticeDTO, error)
	updateFn func(author notices.Author, id uuid.UUID, content string) (*notices.NoticeDTO, error)
	removeFn func(author notices.Author, id uuid.UUID) error
	created  []string
}

func (s *testNoticesService) List(ctx context.Context, viewer uuid.UUID, search string) ([]notices.NoticeDTO, error) {
	if s.listFn != nil {
		return s.listFn(viewer, search)
	}
	return nil, nil
}

func (s *testNoticesService) Get(ctx context.Context, viewer, id uuid.UUID) (*notices.NoticeDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notice not found")
}

func (s *testNoticesService) Create(ctx context.Context, author notices.Author, content string) (*notices.NoticeDTO, error) {
	s.created = append(s.created, content)
	owner := author.UserID
	return &notices.NoticeDTO{ID: uuid.New(), Content: content, CreatedByUserID: &owner, CreatedByName: author.Name, CanEdit: true}, nil
}

func (s *testNoticesService) Update(ctx context.Context, author notices.Author, id uuid.UUID, content string) (*notices.NoticeDTO, error) {
	return s.updateFn(author, id, content)
}

func (s *testNoticesService) Remove(ctx context.Context, author notices.Author, id uuid.UUID) error {
	if s.removeFn != nil {
		return s.removeFn(author, id)
	}
	return nil
}

func TestListNoticesForwardsViewerAndSearch(t *testing.T) {
	var viewer uuid.UUID
	var search string
	svc := &testNoticesService{listFn: func(v uuid.UUID, s string) ([]notices.NoticeDTO, error) {
		viewer, search = v, s
		return []notices.NoticeDTO{{ID: uuid.New(), Content: "gate code changed", CanEdit: true}}, nil
	}}
	resp := httptest.NewRecorder()
	ListNotices(svc, testLogger())(resp, authedRequest(http.MethodGet, "/api/v1/notices?search=gate", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if viewer != testCaller.UserID || search != "gate" {
		t.Fatalf("unexpected forwarding viewer=%s search=%q", viewer, search)
	}
	var body []notices.NoticeDTO
	decodeData(t, resp, &body)
	if len(body) != 1 || !body[0].CanEdit {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestCreateNotice(t *testing.T) {
	svc := &testNoticesService{}
	resp := httptest.NewRecorder()
	CreateNotice(svc, testLogger())(resp, authedRequest(http.MethodPost, "/api/v1/notices", `{"content":"bring gloves"}`))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(svc.created) != 1 || svc.created[0] != "bring gloves" {
		t.Fatalf("unexpected creates %v", svc.created)
	}

	resp = httptest.NewRecorder()
	CreateNotice(svc, testLogger())(resp, authedRequest(http.MethodPost, "/api/v1/notices", `{"content":""}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateNoticeForbiddenForOtherAuthor(t *testing.T) {
	svc := &testNoticesService{updateFn: func(author notices.Author, id uuid.UUID, content string) (*notices.NoticeDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can change this notice")
	}}
	id := uuid.New()
	req := addRouteParam(authedRequest(http.MethodPatch, "/api/v1/notices/"+id.String(), `{"content":"edited"}`), "noticeId", id.String())
	resp := httptest.NewRecorder()
	UpdateNotice(svc, testLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestGetNoticeNotFound(t *testing.T) {
	id := uuid.New()
	req := addRouteParam(authedRequest(http.MethodGet, "/api/v1/notices/"+id.String(), ""), "noticeId", id.String())
	resp := httptest.NewRecorder()
	GetNotice(&testNoticesService{}, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestRemoveNoticePassesAuthor(t *testing.T) {
	var author notices.Author
	svc := &testNoticesService{removeFn: func(a notices.Author, id uuid.UUID) error {
		author = a
		return nil
	}}
	id := uuid.New()
	req := addRouteParam(authedRequest(http.MethodDelete, "/", ""), "noticeId", id.String())
	resp := httptest.NewRecorder()
	RemoveNotice(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if author.UserID != testCaller.UserID || author.Email != testCaller.Email {
		t.Fatalf("unexpected author %+v", author)
	}
}
