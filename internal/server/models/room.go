package models

// RoomStatus is the lifecycle state of a planning room.
type RoomStatus string

const (
	RoomStatusOpen   RoomStatus = "OPEN"
	RoomStatusClosed RoomStatus = "CLOSED"
)

type Room struct {
	RoomID        string     `json:"roomId" dynamodbav:"roomId"`
	Name          string     `json:"name" dynamodbav:"name"`
	OwnerUserName string     `json:"ownerUsername" dynamodbav:"ownerUsername"`
	CreatedAt     int64      `json:"createdAt" dynamodbav:"createdAt"`
	Status        RoomStatus `json:"status" dynamodbav:"status"`
}
