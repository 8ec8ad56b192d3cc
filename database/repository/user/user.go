package userRepo

import (
	"arone/database"
	"arone/database/repository/decode"
	"arone/models"
)

// DecodeUser reads a users document. The role goes through models.ResolveRole.
func DecodeUser(doc database.Document) models.User {
	return models.User{
		ID:        doc.ID,
		Email:     decode.String(doc.Data[models.FieldEmail]),
		Role:      models.ResolveRole(decode.String(doc.Data[models.FieldRole])),
		Nickname:  decode.String(doc.Data[models.FieldNickname]),
		FCMToken:  decode.String(doc.Data[models.FieldFCMToken]),
		CreatedAt: decode.Time(doc.Data[models.FieldCreatedAt]),
	}
}

// DecodeUsers reads a users snapshot.
func DecodeUsers(docs []database.Document) []models.User {
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, DecodeUser(doc))
	}
	return users
}
