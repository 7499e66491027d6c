package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection       *mongo.Collection
	ProductCollection    *mongo.Collection
	OrdersCollection     *mongo.Collection
	OrderItemsCollection *mongo.Collection
	CartCollection       *mongo.Collection
	Client               *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "souq"
	}

	database := Client.Database(dbName)
	UserCollection = database.Collection("users")
	ProductCollection = database.Collection("products")
	OrdersCollection = database.Collection("orders")
	OrderItemsCollection = database.Collection("order_items")
	CartCollection = database.Collection("carts")
}
