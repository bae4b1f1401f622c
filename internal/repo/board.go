package repo

import (
	"canvas-studio-backend/internal/models"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

// ErrBoardNotFound is returned when a board id does not exist.
var ErrBoardNotFound = errors.New("board not found")

// BoardRepo represents the repository for the board model
type BoardRepo struct {
	db *gorm.DB
}

type BoardRepoInterface interface {
	CreateBoard(board *models.Board) (uuid.UUID, error)
	GetAllBoards() ([]models.Board, error)
	GetBoard(boardId uuid.UUID) (models.Board, error)
}

func NewBoardRepository(db *gorm.DB) BoardRepoInterface {
	return &BoardRepo{db: db}
}

// CreateBoard creates a new board in the database
func (r *BoardRepo) CreateBoard(board *models.Board) (uuid.UUID, error) {
	id := uuid.New()
	board.UUID = id
	board.CreatedAt = time.Now()
	board.UpdatedAt = time.Now()
	err := r.db.Create(board).Error
	return id, err
}

// GetAllBoards returns all boards in the database
func (r *BoardRepo) GetAllBoards() ([]models.Board, error) {
	var boards []models.Board
	err := r.db.Order("created_at desc").Find(&boards).Error
	return boards, err
}

func (r *BoardRepo) GetBoard(boardId uuid.UUID) (models.Board, error) {
	var board models.Board
	result := r.db.Where("uuid = ?", boardId).First(&board)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return board, fmt.Errorf("%w: %s", ErrBoardNotFound, boardId)
	}
	return board, result.Error
}

// MemoryBoardRepo is the in-memory board list used with the memory store
// driver.
type MemoryBoardRepo struct {
	mu     sync.RWMutex
	boards []models.Board
}

func NewMemoryBoardRepository() *MemoryBoardRepo {
	return &MemoryBoardRepo{}
}

func (r *MemoryBoardRepo) CreateBoard(board *models.Board) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	board.UUID = uuid.New()
	board.CreatedAt = time.Now()
	board.UpdatedAt = board.CreatedAt
	r.boards = append(r.boards, *board)
	return board.UUID, nil
}

func (r *MemoryBoardRepo) GetAllBoards() ([]models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	boards := make([]models.Board, len(r.boards))
	copy(boards, r.boards)
	return boards, nil
}

func (r *MemoryBoardRepo) GetBoard(boardId uuid.UUID) (models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.boards {
		if b.UUID == boardId {
			return b, nil
		}
	}
	return models.Board{}, fmt.Errorf("%w: %s", ErrBoardNotFound, boardId)
}
