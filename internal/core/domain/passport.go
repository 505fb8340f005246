package domain

// Passport is a user's permanent credential. The password field holds the
// storage digest, never plaintext.
type Passport struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	UserID   string `json:"user_id" bson:"user_id"`
	UserType Role   `json:"user_type" bson:"user_type"`
	Password string `json:"-" bson:"password"`
}

// TempPassport is a short-lived, single-use credential issued at
// registration or password reset. Once IsUsed flips to true it can never
// authenticate again, regardless of expiry.
type TempPassport struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	UserID   string `json:"user_id" bson:"user_id"`
	UserType Role   `json:"user_type" bson:"user_type"`
	Password string `json:"-" bson:"password"`
	IsUsed   bool   `json:"is_used" bson:"is_used"`
	Expiry   int64  `json:"expiry" bson:"expiry"`
}
