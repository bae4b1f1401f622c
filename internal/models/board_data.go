package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BoardData is the persisted row of a single board object. The full object
// lives in Data; Type and ZIndex are copied out for querying.
type BoardData struct {
	UUID      uuid.UUID      `gorm:"primarykey" json:"uuid"`
	BoardId   uuid.UUID      `gorm:"not null;index" json:"board_id"`
	Type      ObjectType     `gorm:"default:'rect'" json:"type"`
	ZIndex    int            `gorm:"default:0" json:"z_index"`
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewBoardData encodes obj into a row for boardId.
func NewBoardData(boardId uuid.UUID, obj BoardObject) (*BoardData, error) {
	objectUUID, err := uuid.Parse(obj.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid object id %q: %w", obj.ID, err)
	}

	bytes, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	return &BoardData{
		UUID:    objectUUID,
		BoardId: boardId,
		Type:    obj.Type,
		ZIndex:  obj.ZIndex,
		Data:    datatypes.JSON(bytes),
	}, nil
}

// Object decodes the stored object. The row's uuid wins over any id inside
// the payload.
func (d *BoardData) Object() (BoardObject, error) {
	var obj BoardObject
	if len(d.Data) > 0 {
		if err := json.Unmarshal(d.Data, &obj); err != nil {
			return BoardObject{}, fmt.Errorf("failed to decode object %s: %w", d.UUID, err)
		}
	}
	obj.ID = d.UUID.String()
	if obj.Type == "" {
		obj.Type = d.Type
	}
	return obj, nil
}
