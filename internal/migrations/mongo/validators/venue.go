package validators

import "go.mongodb.org/mongo-driver/bson"

var VenueValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "key", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"key": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
				"not": bson.M{
					"enum": []string{"na", "others", "house", "self"},
				},
			},
			"capacity": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var VenueLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "venue_key", "owner", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^venue_lock_",
			},
			"venue_key": bson.M{
				"bsonType": "string",
			},
			"owner": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
