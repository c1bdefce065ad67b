// Package qdrant provides a ProfileIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
)

// profileNamespace derives stable point ids from entity ids, so saving a
// profile twice replaces the earlier point.
var profileNamespace = uuid.MustParse("8f1c2a4e-6b7d-4c3e-9a10-2f5e7d9b1c40")

// maxDistance is the Euclidean distance between the all-zero and all-one
// six-dimension vectors.
var maxDistance = math.Sqrt(6)

// Repository implements ports.ProfileIndex and ports.CollectionManager using Qdrant.
type Repository struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewRepository creates a new Qdrant repository.
func NewRepository(cfg config.QdrantConfig) (*Repository, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection is required")
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Repository{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (r *Repository) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Collection returns the collection name.
func (r *Repository) Collection() string {
	return r.collection
}

// EnsureCollection creates the collection if it doesn't exist.
func (r *Repository) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Euclid,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DeleteCollection removes the collection and all its profiles.
func (r *Repository) DeleteCollection(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Save stores or replaces the profile of an entity.
func (r *Repository) Save(ctx context.Context, profile ports.Profile) error {
	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Wait:           pb.PtrOf(true),
		Points:         []*pb.PointStruct{profileToPoint(profile)},
	})
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

// Search returns the profiles nearest to vector, most similar first.
func (r *Repository) Search(ctx context.Context, vector []float32, limit int) ([]ports.Profile, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}

	profiles := make([]ports.Profile, 0, len(resp.Result))
	for _, point := range resp.Result {
		profiles = append(profiles, scoredPointToProfile(point))
	}
	return profiles, nil
}

// Delete removes the profile of an entity.
func (r *Repository) Delete(ctx context.Context, entityID string) error {
	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Wait:           pb.PtrOf(true),
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: []*pb.PointId{pointID(entityID)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// Count returns the number of stored profiles.
func (r *Repository) Count(ctx context.Context) (uint64, error) {
	resp, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("getting collection info: %w", err)
	}

	if resp.Result.PointsCount == nil {
		return 0, nil
	}

	return *resp.Result.PointsCount, nil
}

func pointID(entityID string) *pb.PointId {
	return &pb.PointId{
		PointIdOptions: &pb.PointId_Uuid{
			Uuid: uuid.NewSHA1(profileNamespace, []byte(entityID)).String(),
		},
	}
}

// profileToPoint converts a profile to a Qdrant point.
func profileToPoint(p ports.Profile) *pb.PointStruct {
	payload := map[string]*pb.Value{
		"entity_id": {Kind: &pb.Value_StringValue{StringValue: p.EntityID}},
		"composite": {Kind: &pb.Value_DoubleValue{DoubleValue: p.Composite}},
		"chitty":    {Kind: &pb.Value_DoubleValue{DoubleValue: p.Chitty}},
		"level":     {Kind: &pb.Value_StringValue{StringValue: string(p.Level)}},
	}
	for _, dim := range entities.AllDimensions {
		payload[string(dim)] = &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: p.Dimensions.Value(dim)}}
	}

	vector := make([]float32, 0, len(entities.AllDimensions))
	for _, v := range p.Dimensions.Values() {
		vector = append(vector, float32(v/100))
	}

	return &pb.PointStruct{
		Id: pointID(p.EntityID),
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: vector},
			},
		},
		Payload: payload,
	}
}

// scoredPointToProfile converts a search hit to a profile. Qdrant reports
// Euclidean distance as the score; it is mapped onto [0,1] similarity.
func scoredPointToProfile(point *pb.ScoredPoint) ports.Profile {
	payload := point.Payload
	p := ports.Profile{
		EntityID:   getStringValue(payload, "entity_id"),
		Composite:  getDoubleValue(payload, "composite"),
		Chitty:     getDoubleValue(payload, "chitty"),
		Level:      entities.TrustLevel(getStringValue(payload, "level")),
		Similarity: math.Max(0, 1-float64(point.Score)/maxDistance),
	}
	for _, dim := range entities.AllDimensions {
		p.Dimensions.Set(dim, getDoubleValue(payload, string(dim)))
	}
	return p
}

// Helper functions for payload extraction.
func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func getDoubleValue(payload map[string]*pb.Value, key string) float64 {
	if v, ok := payload[key]; ok {
		return v.GetDoubleValue()
	}
	return 0
}
