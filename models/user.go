package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a single document in the users collection. The password hash and
// the one-time reset code are never serialized into a response.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username  string               `bson:"username" json:"username"`
	Name      string               `bson:"name,omitempty" json:"name,omitempty"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Address   string               `bson:"address,omitempty" json:"address,omitempty"`
	Company   string               `bson:"company,omitempty" json:"company,omitempty"`
	Phone     string               `bson:"phone,omitempty" json:"phone,omitempty"`
	About     string               `bson:"about,omitempty" json:"about,omitempty"`
	Photo     *Photo               `bson:"photo,omitempty" json:"photo,omitempty"`
	Role      []string             `bson:"role" json:"role"`
	Enquired  []primitive.ObjectID `bson:"enquiredProperties" json:"enquiredProperties"`
	Wishlist  []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	ResetCode string               `bson:"resetCode" json:"-"`
	CreatedAt int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64                `bson:"updatedAt" json:"updatedAt"`
}

// OwnerSummary is the public slice of an account joined onto an ad.
type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company  string             `bson:"company,omitempty" json:"company,omitempty"`
	Photo    *Photo             `bson:"photo,omitempty" json:"photo,omitempty"`
}

const RoleBuyer = "Buyer"
const RoleSeller = "Seller"
