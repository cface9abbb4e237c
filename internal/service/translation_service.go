package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"transcatalog/internal/cache"
	"transcatalog/internal/logger"
	"transcatalog/internal/model"
	"transcatalog/internal/repository"
	"transcatalog/internal/search"
)

const (
	DefaultPageSize     = 50
	DefaultExportLocale = "en"

	maxKeyLength    = 255
	maxLocaleLength = 35
	maxTagLength    = 64
)

// ExportCache is the part of cache.ExportCache the service depends on.
type ExportCache interface {
	Get(ctx context.Context, locale string) (*cache.Snapshot, error)
	Invalidate(ctx context.Context, locale string)
}

// Page is one page of a listing together with the size of the full result.
type Page struct {
	Items   []model.Translation
	Page    int
	PerPage int
	Total   int
}

// LastPage is the number of the final page; an empty result still has page 1.
func (p Page) LastPage() int {
	if p.Total == 0 || p.PerPage <= 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// CreateInput holds the caller-supplied fields of a new translation.
type CreateInput struct {
	Key     string
	Locale  string
	Content string
	Tag     *string
}

type TranslationService interface {
	Create(ctx context.Context, in CreateInput) (model.Translation, error)
	GetByID(ctx context.Context, id int64) (model.Translation, error)
	Update(ctx context.Context, id int64, patch model.TranslationPatch) (model.Translation, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, filter search.Filter, page int) (Page, error)
	List(ctx context.Context, page int) (Page, error)
	// Export returns the key→content snapshot of locale, "en" when locale is empty.
	Export(ctx context.Context, locale string) (*cache.Snapshot, error)
}

type translationService struct {
	repo    repository.TranslationRepository
	exports ExportCache
}

func NewTranslationService(repo repository.TranslationRepository, exports ExportCache) TranslationService {
	return &translationService{repo: repo, exports: exports}
}

func (s *translationService) Create(ctx context.Context, in CreateInput) (model.Translation, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return model.Translation{}, err
	}

	key := strings.TrimSpace(in.Key)
	if err := validateKey(key); err != nil {
		return model.Translation{}, err
	}
	locale, err := normalizeLocale(in.Locale)
	if err != nil {
		return model.Translation{}, err
	}
	tag, err := normalizeTag(in.Tag)
	if err != nil {
		return model.Translation{}, err
	}

	created, err := s.repo.Create(ctx, model.Translation{
		Key:     key,
		Locale:  locale,
		Content: in.Content,
		Tag:     tag,
	})
	if err != nil {
		return model.Translation{}, storeError("create translation", err)
	}

	s.exports.Invalidate(ctx, created.Locale)
	logger.Info("translation created",
		"module", "service",
		"action", "create",
		"resource", "translation",
		"result", "ok",
		"translation_id", created.ID,
		"locale", created.Locale,
	)
	return created, nil
}

func (s *translationService) GetByID(ctx context.Context, id int64) (model.Translation, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return model.Translation{}, err
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Translation{}, storeError("get translation", err)
	}
	return t, nil
}

// Update changes content and/or tag. Key and locale are immutable.
// An empty patch returns the stored entry unchanged.
func (s *translationService) Update(ctx context.Context, id int64, patch model.TranslationPatch) (model.Translation, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return model.Translation{}, err
	}
	if patch.Tag != nil {
		tag, err := normalizeTag(patch.Tag)
		if err != nil {
			return model.Translation{}, err
		}
		if tag == nil {
			// Blank clears the tag; the store keeps it as NULL like an untagged create.
			empty := ""
			tag = &empty
		}
		patch.Tag = tag
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return model.Translation{}, storeError("update translation", err)
	}
	if patch.IsEmpty() {
		return updated, nil
	}

	s.exports.Invalidate(ctx, updated.Locale)
	logger.Info("translation updated",
		"module", "service",
		"action", "update",
		"resource", "translation",
		"result", "ok",
		"translation_id", updated.ID,
		"locale", updated.Locale,
	)
	return updated, nil
}

func (s *translationService) Delete(ctx context.Context, id int64) error {
	if _, err := requireIdentity(ctx); err != nil {
		return err
	}

	// The repository reads the row before removing it, which gives us its locale.
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError("delete translation", err)
	}

	s.exports.Invalidate(ctx, deleted.Locale)
	logger.Info("translation deleted",
		"module", "service",
		"action", "delete",
		"resource", "translation",
		"result", "ok",
		"translation_id", deleted.ID,
		"locale", deleted.Locale,
	)
	return nil
}

func (s *translationService) Search(ctx context.Context, filter search.Filter, page int) (Page, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return Page{}, err
	}
	return s.page(ctx, filter, page)
}

func (s *translationService) List(ctx context.Context, page int) (Page, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return Page{}, err
	}
	return s.page(ctx, search.Filter{}, page)
}

func (s *translationService) page(ctx context.Context, filter search.Filter, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return Page{}, storeError("count translations", err)
	}

	// Pages past the end are empty. Comparing page numbers first keeps the
	// offset multiplication from overflowing on absurd page values.
	items := []model.Translation{}
	lastPage := (total + DefaultPageSize - 1) / DefaultPageSize
	if page <= lastPage {
		items, err = s.repo.List(ctx, filter, DefaultPageSize, (page-1)*DefaultPageSize)
		if err != nil {
			return Page{}, storeError("list translations", err)
		}
	}

	return Page{Items: items, Page: page, PerPage: DefaultPageSize, Total: total}, nil
}

func (s *translationService) Export(ctx context.Context, locale string) (*cache.Snapshot, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(locale) == "" {
		locale = DefaultExportLocale
	}
	locale, err := normalizeLocale(locale)
	if err != nil {
		return nil, err
	}

	snap, err := s.exports.Get(ctx, locale)
	if err != nil {
		return nil, storeError("export locale", err)
	}
	return snap, nil
}

func validateKey(key string) error {
	if key == "" {
		return invalid("key", "is required")
	}
	if utf8.RuneCountInString(key) > maxKeyLength {
		return invalid("key", "is too long")
	}
	return nil
}

// normalizeLocale requires a well-formed BCP 47 tag but keeps the caller's spelling,
// so "en" and "en-US" stay distinct catalogs.
func normalizeLocale(locale string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return "", invalid("locale", "is required")
	}
	if len(locale) > maxLocaleLength {
		return "", invalid("locale", "is too long")
	}
	if _, err := language.Parse(locale); err != nil {
		return "", invalid("locale", "is not a valid language tag")
	}
	return locale, nil
}

// normalizeTag trims the tag; a blank tag means none.
func normalizeTag(tag *string) (*string, error) {
	if tag == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*tag)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxTagLength {
		return nil, invalid("tag", "is too long")
	}
	return &trimmed, nil
}

func storeError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return &StoreError{Op: op, Err: err}
}
