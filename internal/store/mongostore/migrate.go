package mongostore

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// typeIDExpr maps the legacy code to an id inside an update pipeline.
func typeIDExpr(mapping map[string]string, fallback string) any {
	if len(mapping) == 0 {
		return bson.M{"$literal": fallback}
	}
	codes := make([]string, 0, len(mapping))
	for c := range mapping {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	branches := bson.A{}
	for _, c := range codes {
		branches = append(branches, bson.M{
			"case": bson.M{"$eq": bson.A{"$appointment_type", bson.M{"$literal": c}}},
			"then": bson.M{"$literal": mapping[c]},
		})
	}
	return bson.M{"$switch": bson.M{"branches": branches, "default": bson.M{"$literal": fallback}}}
}

func (s *Store) MigrateLegacyTypes(ctx context.Context, mapping map[string]string, fallback string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"appointment_type_id": typeIDExpr(mapping, fallback)}}},
		{{Key: "$unset", Value: "appointment_type"}},
	}
	res, err := s.appts.UpdateMany(ctx, bson.M{"appointment_type": bson.M{"$exists": true}}, pipeline)
	if err != nil {
		return 0, fmt.Errorf("migrate legacy types: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) BackfillTypeID(ctx context.Context, typeID string) (int64, error) {
	res, err := s.appts.UpdateMany(ctx,
		bson.M{"appointment_type_id": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"appointment_type_id": typeID}})
	if err != nil {
		return 0, fmt.Errorf("backfill type id: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) NormalizeLuggage(ctx context.Context) (int64, error) {
	keep := bson.M{"$gt": bson.A{bson.M{"$ifNull": bson.A{"$luggage_passengers", ""}}, ""}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"luggage_passengers": bson.M{"$cond": bson.M{
			"if":   keep,
			"then": "$luggage_passengers",
			"else": bson.M{"$ifNull": bson.A{bson.M{"$toString": "$luggage_count"}, ""}},
		}}}}},
		{{Key: "$unset", Value: "luggage_count"}},
	}
	res, err := s.appts.UpdateMany(ctx, bson.M{"luggage_count": bson.M{"$exists": true}}, pipeline)
	if err != nil {
		return 0, fmt.Errorf("normalize luggage: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) RenameType(ctx context.Context, from, to string) (int64, error) {
	res, err := s.types.UpdateMany(ctx, bson.M{"name": from}, bson.M{"$set": bson.M{"name": to}})
	if err != nil {
		return 0, fmt.Errorf("rename type: %w", err)
	}
	return res.ModifiedCount, nil
}
