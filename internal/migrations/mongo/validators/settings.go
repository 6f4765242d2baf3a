package validators

import "go.mongodb.org/mongo-driver/bson"

var SettingsValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"event_duration_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  15,
				"maximum":  1440,
			},
			"buffer_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  1440,
			},
			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
