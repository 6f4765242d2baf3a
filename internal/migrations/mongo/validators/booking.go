package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingValidator accepts occasion_date as a date or, for documents written
// before dates were normalized, as a YYYY-MM-DD string.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"title",
			"venues",
			"venue_keys",
			"occasion_date",
			"occasion_time",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"host_name": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"venues": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
					"maxLength": 100,
				},
			},

			"venue_keys": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"occasion_date": bson.M{
				"bsonType": []string{"date", "string"},
			},

			"occasion_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"BOOKED",
					"CANCELLED",
					"COMPLETED",
				},
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
