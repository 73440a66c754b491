package models

import (
	"time"
)

type TodoItem struct {
	ID        string    `firestore:"id" json:"id"`
	Text      string    `firestore:"text" json:"text"`
	Completed bool      `firestore:"completed" json:"completed"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
