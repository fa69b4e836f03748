package occupancy

import "hotelier/internal/models"

// ResolvedClaim is a room type claim normalized for aggregation: assigned
// room IDs deduplicated, plus how many requested rooms remain unassigned.
type ResolvedClaim struct {
	RoomType        string  `json:"room_type"`
	Requested       int     `json:"requested"`
	AssignedRoomIDs []int64 `json:"assigned_room_ids,omitempty"`
	UnassignedCount int     `json:"unassigned_count"`
}

// ResolveAssignments maps a booking to the room-type buckets it occupies.
// Pure function: it never consults the room inventory. Looking up room
// numbers for display is the presentation layer's job, keyed by the returned
// room IDs.
func ResolveAssignments(b *models.Booking) []ResolvedClaim {
	if b == nil || len(b.Claims) == 0 {
		return nil
	}
	resolved := make([]ResolvedClaim, 0, len(b.Claims))
	for _, c := range b.Claims {
		ids := c.AssignedRoomIDs()
		unassigned := c.NumberOfRooms - len(ids)
		if unassigned < 0 {
			unassigned = 0
		}
		resolved = append(resolved, ResolvedClaim{
			RoomType:        c.RoomType,
			Requested:       c.NumberOfRooms,
			AssignedRoomIDs: ids,
			UnassignedCount: unassigned,
		})
	}
	return resolved
}
