package canvas

import (
	"sort"

	"canvas-studio-backend/internal/models"
)

// ZOrderAction names one of the four stacking commands.
type ZOrderAction string

const (
	BringToFrontAction ZOrderAction = "front"
	SendToBackAction   ZOrderAction = "back"
	BringForwardAction ZOrderAction = "forward"
	SendBackwardAction ZOrderAction = "backward"
)

// ComputeZOrder dispatches action. Unknown actions change nothing.
func ComputeZOrder(action ZOrderAction, objects []models.BoardObject, selectedIDs []string) map[string]int {
	switch action {
	case BringToFrontAction:
		return BringToFront(objects, selectedIDs)
	case SendToBackAction:
		return SendToBack(objects, selectedIDs)
	case BringForwardAction:
		return BringForward(objects, selectedIDs)
	case SendBackwardAction:
		return SendBackward(objects, selectedIDs)
	}
	return map[string]int{}
}

// NextZIndex is the zIndex a newly created object receives.
func NextZIndex(objects []models.BoardObject) int {
	if len(objects) == 0 {
		return 0
	}
	top := objects[0].ZIndex
	for _, obj := range objects[1:] {
		if obj.ZIndex > top {
			top = obj.ZIndex
		}
	}
	return top + 1
}

// sortedByZ returns a copy of objects ordered bottom to top. Equal zIndex
// values keep their input order.
func sortedByZ(objects []models.BoardObject) []models.BoardObject {
	sorted := append([]models.BoardObject(nil), objects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZIndex < sorted[j].ZIndex
	})
	return sorted
}

// selection returns the selected objects bottom to top.
func selection(objects []models.BoardObject, selectedIDs []string) ([]models.BoardObject, map[string]bool) {
	ids := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		ids[id] = true
	}
	var selected []models.BoardObject
	for _, obj := range sortedByZ(objects) {
		if ids[obj.ID] {
			selected = append(selected, obj)
		}
	}
	return selected, ids
}

// BringToFront stacks the selection above everything else, keeping its
// internal order.
func BringToFront(objects []models.BoardObject, selectedIDs []string) map[string]int {
	selected, _ := selection(objects, selectedIDs)
	result := make(map[string]int, len(selected))
	if len(selected) == 0 {
		return result
	}

	base := NextZIndex(objects)
	for i, obj := range selected {
		result[obj.ID] = base + i
	}
	return result
}

// SendToBack stacks the selection below everything else, keeping its
// internal order. The new values are never above zero.
func SendToBack(objects []models.BoardObject, selectedIDs []string) map[string]int {
	selected, _ := selection(objects, selectedIDs)
	result := make(map[string]int, len(selected))
	if len(selected) == 0 {
		return result
	}

	lowest := 0
	for _, obj := range objects {
		if obj.ZIndex < lowest {
			lowest = obj.ZIndex
		}
	}
	base := lowest - len(selected)
	for i, obj := range selected {
		result[obj.ID] = base + i
	}
	return result
}

// BringForward moves the topmost selected object one step up by swapping
// zIndex with the object directly above it. Already on top, it goes one
// past the current maximum. Other selected objects are not touched.
func BringForward(objects []models.BoardObject, selectedIDs []string) map[string]int {
	return stepZ(objects, selectedIDs, true)
}

// SendBackward is the mirror of BringForward for the bottommost selected
// object.
func SendBackward(objects []models.BoardObject, selectedIDs []string) map[string]int {
	return stepZ(objects, selectedIDs, false)
}

func stepZ(objects []models.BoardObject, selectedIDs []string, up bool) map[string]int {
	result := map[string]int{}
	sorted := sortedByZ(objects)
	_, ids := selection(objects, selectedIDs)

	edge := -1
	for i, obj := range sorted {
		if !ids[obj.ID] {
			continue
		}
		if edge == -1 || up {
			edge = i
		}
		if !up {
			break
		}
	}
	if edge == -1 {
		return result
	}
	moving := sorted[edge]

	neighbor := -1
	if up {
		for i := edge + 1; i < len(sorted); i++ {
			if !ids[sorted[i].ID] {
				neighbor = i
				break
			}
		}
	} else {
		for i := edge - 1; i >= 0; i-- {
			if !ids[sorted[i].ID] {
				neighbor = i
				break
			}
		}
	}

	if neighbor == -1 {
		if up {
			result[moving.ID] = sorted[len(sorted)-1].ZIndex + 1
		} else {
			result[moving.ID] = sorted[0].ZIndex - 1
		}
		return result
	}

	other := sorted[neighbor]
	if other.ZIndex == moving.ZIndex {
		// Swapping equal values would be a no-op; step past the neighbor.
		if up {
			result[moving.ID] = other.ZIndex + 1
		} else {
			result[moving.ID] = other.ZIndex - 1
		}
		return result
	}
	result[moving.ID] = other.ZIndex
	result[other.ID] = moving.ZIndex
	return result
}
