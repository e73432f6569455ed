package service

import (
	"context"
	"sync"

	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/repository/contract"
	"ai-flashcard-be/internal/repository/specification"
	"ai-flashcard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// fakeDB is an in-memory stand-in for the gorm unit of work. Specifications
// are interpreted by type since there is no SQL underneath.
type fakeDB struct {
	mu        sync.Mutex
	chunks    []entity.Chunk
	decks     map[uuid.UUID]entity.UserDeck
	pdfCaches map[string]entity.PDFCacheEntry

	createErr error
	begun     int
	committed int
	rolled    int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		decks:     make(map[uuid.UUID]entity.UserDeck),
		pdfCaches: make(map[string]entity.PDFCacheEntry),
	}
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: db}
}

type fakeUow struct {
	db *fakeDB
	// staged chunk state while a transaction is open
	staged []entity.Chunk
	inTx   bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.db.mu.Lock()
	u.staged = append([]entity.Chunk(nil), u.db.chunks...)
	u.db.begun++
	u.db.mu.Unlock()
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.chunks = u.staged
	u.db.committed++
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.rolled++
	u.inTx = false
	return nil
}

func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository {
	return &fakeChunkRepo{uow: u}
}

func (u *fakeUow) PdfCacheRepository() contract.PdfCacheRepository {
	return &fakePdfCacheRepo{db: u.db}
}

func (u *fakeUow) UserDeckRepository() contract.UserDeckRepository {
	return &fakeDeckRepo{db: u.db}
}

type fakeChunkRepo struct {
	uow *fakeUow
}

func (r *fakeChunkRepo) rows() *[]entity.Chunk {
	if r.uow.inTx {
		return &r.uow.staged
	}
	return &r.uow.db.chunks
}

func matchDocument(c entity.Chunk, specs []specification.Specification) bool {
	for _, s := range specs {
		if d, ok := s.(specification.ByDocument); ok {
			if c.Metadata.DocumentId != d.DocumentId || c.Metadata.UserId != d.UserId {
				return false
			}
		}
	}
	return true
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if r.uow.db.createErr != nil {
		return r.uow.db.createErr
	}
	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()
	rows := r.rows()
	for _, c := range chunks {
		*rows = append(*rows, *c)
	}
	return nil
}

func (r *fakeChunkRepo) DeleteByDocument(ctx context.Context, documentId, userId string) error {
	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()
	rows := r.rows()
	kept := (*rows)[:0:0]
	for _, c := range *rows {
		if c.Metadata.DocumentId == documentId && c.Metadata.UserId == userId {
			continue
		}
		kept = append(kept, c)
	}
	*rows = kept
	return nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()
	res := make([]*entity.Chunk, 0)
	for _, c := range *r.rows() {
		if matchDocument(c, specs) {
			c := c
			res = append(res, &c)
		}
	}
	return res, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

type fakePdfCacheRepo struct {
	db *fakeDB
}

func (r *fakePdfCacheRepo) Upsert(ctx context.Context, entry *entity.PDFCacheEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.pdfCaches[entry.Id] = *entry
	return nil
}

func (r *fakePdfCacheRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.pdfCaches, id)
	return nil
}

func (r *fakePdfCacheRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PDFCacheEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range specs {
		if k, ok := s.(specification.ByCacheKey); ok {
			for _, e := range r.db.pdfCaches {
				if e.ContentHash == k.ContentHash && e.UserId == k.UserId && e.FiltersKey == k.FiltersKey {
					return &e, nil
				}
			}
		}
	}
	return nil, nil
}

type fakeDeckRepo struct {
	db *fakeDB
}

func matchDeck(d entity.UserDeck, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if d.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if d.UserId != spec.UserID {
				return false
			}
		}
	}
	return true
}

func (r *fakeDeckRepo) Create(ctx context.Context, deck *entity.UserDeck) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.decks[deck.Id] = *deck
	return nil
}

func (r *fakeDeckRepo) Update(ctx context.Context, deck *entity.UserDeck) error {
	return r.Create(ctx, deck)
}

func (r *fakeDeckRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.decks, id)
	return nil
}

func (r *fakeDeckRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserDeck, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeDeckRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserDeck, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	res := make([]*entity.UserDeck, 0)
	for _, d := range r.db.decks {
		if matchDeck(d, specs) {
			d := d
			res = append(res, &d)
		}
	}
	return res, nil
}
