package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// collection is the part of *mongo.Collection the repositories use.
type collection interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	FindOneAndDelete(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error)
}

func byID(id bson.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func byEmail(email string) bson.D {
	return bson.D{{Key: "email", Value: email}}
}

// activeOTP matches the code for email that is still valid at now.
func activeOTP(email string, now time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: email},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: now}}},
	}
}

// expiredOTP matches the code for email only if it had expired by asOf.
func expiredOTP(email string, asOf time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: email},
		{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: asOf}}},
	}
}

func expiredOTPs(now time.Time) bson.D {
	return bson.D{{Key: "expires_at", Value: bson.D{{Key: "$lte", Value: now}}}}
}
