package repo

import (
	"canvas-studio-backend/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrObjectNotFound is returned when an object id does not exist on a board.
var ErrObjectNotFound = errors.New("board object not found")

type BoardDataRepo struct {
	db *gorm.DB
}

// BoardDataRepoInterface is the authoritative object store of a board.
// Updates are last-write-wins per named field set.
type BoardDataRepoInterface interface {
	ListObjects(boardId uuid.UUID) ([]models.BoardObject, error)
	GetObject(boardId uuid.UUID, objectId string) (models.BoardObject, error)
	SaveObject(boardId uuid.UUID, obj models.BoardObject) error
	UpdateObject(boardId uuid.UUID, objectId string, patch models.ObjectPatch) (models.BoardObject, error)
	DeleteObject(boardId uuid.UUID, objectId string) error
	ClearBoardData(boardId uuid.UUID) error
}

// NewBoardDataRepository returns a new instance of BoardDataRepo
func NewBoardDataRepository(db *gorm.DB) BoardDataRepoInterface {
	return &BoardDataRepo{db: db}
}

func (r *BoardDataRepo) ListObjects(boardId uuid.UUID) ([]models.BoardObject, error) {
	var rows []models.BoardData
	err := r.db.Where("board_id = ?", boardId).Order("z_index asc, created_at asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	objects := make([]models.BoardObject, 0, len(rows))
	for i := range rows {
		obj, err := rows[i].Object()
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func (r *BoardDataRepo) GetObject(boardId uuid.UUID, objectId string) (models.BoardObject, error) {
	row, err := findRow(r.db, boardId, objectId)
	if err != nil {
		return models.BoardObject{}, err
	}
	return row.Object()
}

func findRow(db *gorm.DB, boardId uuid.UUID, objectId string) (*models.BoardData, error) {
	objectUUID, err := uuid.Parse(objectId)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}

	var row models.BoardData
	result := db.Where("uuid = ? AND board_id = ?", objectUUID, boardId).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

// SaveObject creates obj or replaces it wholesale.
func (r *BoardDataRepo) SaveObject(boardId uuid.UUID, obj models.BoardObject) error {
	row, err := models.NewBoardData(boardId, obj)
	if err != nil {
		return err
	}

	var existing models.BoardData
	result := r.db.Where("uuid = ?", row.UUID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row.CreatedAt = time.Now()
		row.UpdatedAt = time.Now()
		return r.db.Create(row).Error
	} else if result.Error != nil {
		return result.Error
	}

	// preserve original CreatedAt
	row.CreatedAt = existing.CreatedAt
	row.UpdatedAt = time.Now()

	return r.db.Model(&existing).Select("board_id", "type", "z_index", "data", "updated_at").Updates(row).Error
}

// UpdateObject applies patch to the stored object inside a row-locked
// transaction, so concurrent patches apply in arrival order.
func (r *BoardDataRepo) UpdateObject(boardId uuid.UUID, objectId string, patch models.ObjectPatch) (models.BoardObject, error) {
	var updated models.BoardObject

	err := r.db.Transaction(func(tx *gorm.DB) error {
		row, err := findRow(tx.Clauses(clause.Locking{Strength: "UPDATE"}), boardId, objectId)
		if err != nil {
			return err
		}
		current, err := row.Object()
		if err != nil {
			return err
		}

		updated = current.Apply(patch)
		next, err := models.NewBoardData(boardId, updated)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now()

		return tx.Model(row).Select("type", "z_index", "data", "updated_at").Updates(next).Error
	})

	return updated, err
}

func (r *BoardDataRepo) DeleteObject(boardId uuid.UUID, objectId string) error {
	objectUUID, err := uuid.Parse(objectId)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}

	result := r.db.Where("uuid = ? AND board_id = ?", objectUUID, boardId).Delete(&models.BoardData{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectId)
	}
	return nil
}

func (r *BoardDataRepo) ClearBoardData(boardId uuid.UUID) error {
	return r.db.Where("board_id = ?", boardId).Delete(&models.BoardData{}).Error
}
