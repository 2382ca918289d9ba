package jsonrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"productapi/internal/core/domain"
	"productapi/internal/core/service/product"
	"productapi/internal/pkg/copier"
	"sync"

	"go.uber.org/zap"
)

type Options struct {
	// CreateIfMissing initialises a missing backing file with an empty array.
	CreateIfMissing bool
	// Persister defaults to a FilePersister on the same filename.
	Persister Persister
	Log       *zap.Logger
}

// JSONRepository keeps the product collection in one JSON file. The last loaded or
// saved collection is cached; the cache is dropped on failed writes and whenever
// Invalidate is called, and reloaded from disk on the next access.
type JSONRepository struct {
	filename   string
	persister  Persister
	normaliser *dataNormaliser
	log        *zap.Logger

	// mu serialises every read-modify-write of the file
	mu         sync.Mutex
	cache      domain.Collection
	cacheValid bool
}

var _ product.Repository = (*JSONRepository)(nil)

func NewJSONRepository(filename string, opts Options) (*JSONRepository, error) {
	repo := &JSONRepository{
		filename:   filename,
		persister:  opts.Persister,
		normaliser: newDataNormaliser(),
		log:        opts.Log,
	}

	if repo.persister == nil {
		repo.persister = NewFilePersister(filename)
	}
	if repo.log == nil {
		repo.log = zap.NewNop()
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if !opts.CreateIfMissing {
			// not fatal, requests will report a read error until the file shows up
			repo.log.Warn("data file does not exist", zap.String("file", filename))
			return repo, nil
		}

		if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
			return nil, fmt.Errorf("could not create data directory: %w", err)
		}
		if err := repo.persister.Persist(domain.Collection{}); err != nil {
			return nil, fmt.Errorf("could not initialise %s: %w", filename, err)
		}
		repo.log.Info("initialised empty data file", zap.String("file", filename))
	}

	if _, err := repo.current(); err != nil {
		// requests report the read or parse error until the file is fixed
		repo.log.Warn("data file could not be loaded", zap.String("file", filename), zap.Error(err))
	}

	return repo, nil
}

// Invalidate drops the cached collection so the next call reads the file again.
func (r *JSONRepository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = nil
	r.cacheValid = false
}

// load reads and parses the whole backing file
func (r *JSONRepository) load() (domain.Collection, error) {
	content, err := os.ReadFile(r.filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", product.ErrRead, err)
	}

	// an empty file is an empty collection
	if len(bytes.TrimSpace(content)) == 0 {
		return domain.Collection{}, nil
	}

	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", product.ErrParse, err)
	}

	return r.normaliser.toCollection(raw)
}

// current returns the cached collection, loading it first if needed. Callers hold r.mu.
func (r *JSONRepository) current() (domain.Collection, error) {
	if r.cacheValid {
		return r.cache, nil
	}

	collection, err := r.load()
	if err != nil {
		return nil, err
	}

	r.cache = collection
	r.cacheValid = true

	return collection, nil
}

// commit writes the collection and makes it the cache. Callers hold r.mu.
func (r *JSONRepository) commit(collection domain.Collection) error {
	if err := r.persister.Persist(collection); err != nil {
		r.cache = nil
		r.cacheValid = false

		r.log.Error("failed to persist products", zap.String("file", r.filename), zap.Error(err))
		return fmt.Errorf("%w: %v", product.ErrWrite, err)
	}

	r.cache = collection
	r.cacheValid = true

	return nil
}

func (r *JSONRepository) LoadAll(ctx context.Context) (domain.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.current()
	if err != nil {
		return nil, err
	}

	return copier.DeepCopy(collection)
}

func (r *JSONRepository) SaveAll(ctx context.Context, products domain.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalised := make(domain.Collection, len(products))
	for i, p := range products {
		normalised[i] = r.normaliser.product(p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.commit(normalised)
}

func (r *JSONRepository) FindByID(ctx context.Context, productID string) (domain.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.current()
	if err != nil {
		return nil, err
	}

	return copier.DeepCopy(collection.FilterByID(productID))
}

func (r *JSONRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newProduct := r.normaliser.product(p)

	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.current()
	if err != nil {
		return nil, err
	}

	newProduct.SetID(collection.NextID())

	updated := make(domain.Collection, 0, len(collection)+1)
	updated = append(updated, collection...)
	updated = append(updated, newProduct)

	if err := r.commit(updated); err != nil {
		return nil, err
	}

	return copier.DeepCopy(newProduct)
}

func (r *JSONRepository) Update(ctx context.Context, productID string, fields map[string]any) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	changes := r.normaliser.product(fields)

	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.current()
	if err != nil {
		return nil, err
	}

	updated := make(domain.Collection, len(collection))
	var first domain.Product

	for i, p := range collection {
		if !p.MatchesID(productID) {
			updated[i] = p
			continue
		}

		updated[i] = p.Merge(changes)
		if first == nil {
			first = updated[i]
		}
	}

	if first == nil {
		return nil, fmt.Errorf("%w: id %s", product.ErrProductNotFound, productID)
	}

	if err := r.commit(updated); err != nil {
		return nil, err
	}

	return copier.DeepCopy(first)
}

func (r *JSONRepository) Delete(ctx context.Context, productID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	collection, err := r.current()
	if err != nil {
		return 0, err
	}

	kept := make(domain.Collection, 0, len(collection))
	for _, p := range collection {
		if !p.MatchesID(productID) {
			kept = append(kept, p)
		}
	}

	removed := len(collection) - len(kept)
	if removed == 0 {
		// nothing matched, the file stays as it is
		return 0, nil
	}

	if err := r.commit(kept); err != nil {
		return 0, err
	}

	return removed, nil
}
