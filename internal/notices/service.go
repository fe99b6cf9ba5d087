package notices

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

// Author identifies the caller acting on notices.
type Author struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// Service defines notice board operations.
type Service interface {
	List(ctx context.Context, viewer uuid.UUID, search string) ([]NoticeDTO, error)
	Get(ctx context.Context, viewer, id uuid.UUID) (*NoticeDTO, error)
	Create(ctx context.Context, author Author, content string) (*NoticeDTO, error)
	Update(ctx context.Context, author Author, id uuid.UUID, content string) (*NoticeDTO, error)
	Remove(ctx context.Context, author Author, id uuid.UUID) error
}

type service struct {
	repo  Repository
	names users.NameResolver
	now   func() time.Time
}

// NewService wires notice dependencies.
func NewService(repo Repository, names users.NameResolver) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notices repository required")
	}
	if names == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "name resolver required")
	}
	return &service{repo: repo, names: names, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) List(ctx context.Context, viewer uuid.UUID, search string) ([]NoticeDTO, error) {
	rows, err := s.repo.ListActive(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notices")
	}
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		emails = append(emails, row.CreatedByEmail)
	}
	names, err := s.resolve(ctx, emails)
	if err != nil {
		return nil, err
	}
	out := make([]NoticeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i], viewer, names))
	}
	return out, nil
}

// Get returns an active notice or NotFound.
func (s *service) Get(ctx context.Context, viewer, id uuid.UUID) (*NoticeDTO, error) {
	notice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !notice.IsActive {
		return nil, noticeNotFound()
	}
	names, err := s.resolve(ctx, []string{notice.CreatedByEmail})
	if err != nil {
		return nil, err
	}
	dto := fromModel(notice, viewer, names)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, author Author, content string) (*NoticeDTO, error) {
	if author.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	now := s.now()
	userID := author.UserID
	notice := &models.Notice{
		Content:         content,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedByUserID: &userID,
		CreatedByName:   author.Name,
		CreatedByEmail:  strings.TrimSpace(author.Email),
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notice")
	}
	dto := fromModel(notice, author.UserID, nil)
	return &dto, nil
}

// Update replaces the content of the caller's own active notice.
func (s *service) Update(ctx context.Context, author Author, id uuid.UUID, content string) (*NoticeDTO, error) {
	notice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !notice.IsActive {
		return nil, noticeNotFound()
	}
	if !ownedBy(notice, author.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only edit your own notices")
	}
	content, err = cleanContent(content)
	if err != nil {
		return nil, err
	}
	affected, err := s.repo.UpdateContent(ctx, id, content, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update notice")
	}
	if affected == 0 {
		return nil, noticeNotFound()
	}
	return s.Get(ctx, author.UserID, id)
}

// Remove soft-deletes the caller's own notice. Removing an inactive notice is a no-op.
func (s *service) Remove(ctx context.Context, author Author, id uuid.UUID) error {
	notice, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !ownedBy(notice, author.UserID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own notices")
	}
	if !notice.IsActive {
		return nil
	}
	if _, err := s.repo.Deactivate(ctx, id, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove notice")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, noticeNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notice")
	}
	return notice, nil
}

func (s *service) resolve(ctx context.Context, emails []string) (map[string]string, error) {
	return s.names.CurrentNames(ctx, emails)
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "notice content cannot be empty").
			WithDetails(map[string]string{"content": "is required"})
	}
	return content, nil
}

func noticeNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "notice not found")
}
