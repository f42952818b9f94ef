package analyses

import (
	"context"
	"time"
	"zemedic-service/internal/app/contracts"
	"zemedic-service/internal/app/models"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AnalysisMongoRepository struct {
	Collection *mongo.Collection
}

func NewAnalysisMongoRepository(db *mongo.Client, dbName string) contracts.AnalysisRepository {
	return &AnalysisMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAnalyses),
	}
}

func (repo *AnalysisMongoRepository) CreateAnalysis(ctx context.Context, analysis *models.Analysis) (string, error) {
	result, err := repo.Collection.InsertOne(ctx, analysis)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindByID returns nil when the id is not an ObjectID or no document matches.
func (repo *AnalysisMongoRepository) FindByID(ctx context.Context, analysisID string) (*models.Analysis, error) {
	objectID, err := primitive.ObjectIDFromHex(analysisID)
	if err != nil {
		return nil, nil
	}

	var analysis models.Analysis
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&analysis)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &analysis, nil
}

func (repo *AnalysisMongoRepository) FindByUserID(ctx context.Context, userID string, limit int64) ([]models.Analysis, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := repo.Collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	analyses := make([]models.Analysis, 0)
	if err := cursor.All(ctx, &analyses); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return analyses, nil
}

func (repo *AnalysisMongoRepository) SetReportObject(ctx context.Context, analysisID, objectName string) error {
	objectID, err := primitive.ObjectIDFromHex(analysisID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{
		"reportObject": objectName,
		"updatedAt":    time.Now(),
	}}
	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *AnalysisMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_history"),
	})
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err, constvars.MongoCollectionAnalyses)
	}
	return nil
}
