package reservationRepo

import (
	"context"

	"oselya/database"
	"oselya/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationRepository stores finalized bookings.
type ReservationRepository interface {
	Create(ctx context.Context, res models.Reservation) (string, error)
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByChatID(ctx context.Context, chatID int64) ([]models.Reservation, error)
	GetByDate(ctx context.Context, date string) ([]models.Reservation, error)
}

type mongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo returns a new ReservationRepository instance using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database("oselya")
	return &mongoReservationRepo{
		coll: db.Collection("reservations"),
	}
}
