package repo

import (
	"canvas-studio-backend/internal/models"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryBoardDataRepo keeps board objects in process memory. It backs the
// memory store driver and the tests.
type MemoryBoardDataRepo struct {
	mu     sync.RWMutex
	boards map[uuid.UUID]*memoryBoard
}

type memoryBoard struct {
	objects map[string]models.BoardObject
	order   []string // insertion order, tie-breaker for equal zIndex
}

// NewMemoryBoardDataRepository returns an empty in-memory object store.
func NewMemoryBoardDataRepository() *MemoryBoardDataRepo {
	return &MemoryBoardDataRepo{boards: make(map[uuid.UUID]*memoryBoard)}
}

func (r *MemoryBoardDataRepo) board(boardId uuid.UUID) *memoryBoard {
	b, ok := r.boards[boardId]
	if !ok {
		b = &memoryBoard{objects: make(map[string]models.BoardObject)}
		r.boards[boardId] = b
	}
	return b
}

func (r *MemoryBoardDataRepo) ListObjects(boardId uuid.UUID) ([]models.BoardObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[boardId]
	if !ok {
		return []models.BoardObject{}, nil
	}
	objects := make([]models.BoardObject, 0, len(b.order))
	for _, id := range b.order {
		objects = append(objects, b.objects[id].Clone())
	}
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].ZIndex < objects[j].ZIndex
	})
	return objects, nil
}

func (r *MemoryBoardDataRepo) GetObject(boardId uuid.UUID, objectId string) (models.BoardObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.boards[boardId]; ok {
		if obj, ok := b.objects[objectId]; ok {
			return obj.Clone(), nil
		}
	}
	return models.BoardObject{}, fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
}

func (r *MemoryBoardDataRepo) SaveObject(boardId uuid.UUID, obj models.BoardObject) error {
	if obj.ID == "" {
		return fmt.Errorf("object id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.board(boardId)
	if _, exists := b.objects[obj.ID]; !exists {
		b.order = append(b.order, obj.ID)
	}
	b.objects[obj.ID] = obj.Clone()
	return nil
}

func (r *MemoryBoardDataRepo) UpdateObject(boardId uuid.UUID, objectId string, patch models.ObjectPatch) (models.BoardObject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[boardId]
	if !ok {
		return models.BoardObject{}, fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}
	current, ok := b.objects[objectId]
	if !ok {
		return models.BoardObject{}, fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}

	updated := current.Apply(patch)
	b.objects[objectId] = updated
	return updated.Clone(), nil
}

func (r *MemoryBoardDataRepo) DeleteObject(boardId uuid.UUID, objectId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[boardId]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}
	if _, ok := b.objects[objectId]; !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}

	delete(b.objects, objectId)
	for i, id := range b.order {
		if id == objectId {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryBoardDataRepo) ClearBoardData(boardId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.boards, boardId)
	return nil
}
