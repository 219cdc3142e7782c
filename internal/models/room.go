package models

// RoomStatus represents the occupancy state of a room
type RoomStatus string

const (
	RoomAvailable RoomStatus = "Available"
	RoomOccupied  RoomStatus = "Occupied"
)

// Room represents a rentable room
type Room struct {
	BaseModel

	RoomNo   string     `json:"roomNo" db:"room_no"`
	RoomType string     `json:"roomType" db:"room_type"`
	Rent     int        `json:"rent" db:"rent"`
	Status   RoomStatus `json:"status" db:"status"`
}
