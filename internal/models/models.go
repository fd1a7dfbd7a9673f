package models

// Currency selects which of a user's two balances an operation targets.
type Currency string

const (
	CurrencyCash  Currency = "CASH"
	CurrencyToken Currency = "TOKEN"
)

// Verification kinds
const (
	VerificationEmail = "EMAIL"
	VerificationPhone = "PHONE"
	VerificationID    = "ID"
)

// Design statuses. DRAFT is part of the status enum but no current
// operation writes it: publishing a design lists it FOR_SALE directly.
const (
	DesignStatusDraft   = "DRAFT"
	DesignStatusForSale = "FOR_SALE"
	DesignStatusSold    = "SOLD"
)

// PodConfig is the visual configuration of a brand pavilion.
type PodConfig struct {
	WallColor      string  `db:"wall_color" json:"wallColor"`
	FloorColor     string  `db:"floor_color" json:"floorColor"`
	LightIntensity float64 `db:"light_intensity" json:"lightIntensity"`
}

// Pod config defaults applied when a brand row carries empty/zero values.
const (
	DefaultWallColor      = "#111111"
	DefaultFloorColor     = "#222222"
	DefaultLightIntensity = 1.0
)

// Brand is a pavilion in the galaxy. The nested slices are assembled by
// the read model, never stored on the row itself.
type Brand struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Color       string     `db:"color" json:"color"`
	Description string     `db:"description" json:"description"`
	Position    [3]float64 `json:"position"`
	PodConfig   PodConfig  `json:"podConfig"`
	Products    []Product  `json:"products"`
	Coupons     []Coupon   `json:"coupons"`
	Campaigns   []Campaign `json:"campaigns"`
}

// BrandRow is the flat brands table row.
type BrandRow struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Color          string  `db:"color"`
	Description    string  `db:"description"`
	PositionX      float64 `db:"position_x"`
	PositionY      float64 `db:"position_y"`
	PositionZ      float64 `db:"position_z"`
	WallColor      string  `db:"wall_color"`
	FloorColor     string  `db:"floor_color"`
	LightIntensity float64 `db:"light_intensity"`
}

// Product belongs to exactly one brand. Geometry is one of
// box/sphere/cone/torus.
type Product struct {
	ID          string `db:"id" json:"id"`
	BrandID     string `db:"brand_id" json:"brandId,omitempty"`
	Name        string `db:"name" json:"name"`
	Price       int64  `db:"price" json:"price"`
	Stock       int64  `db:"stock" json:"stock"`
	Description string `db:"description" json:"description"`
	Color       string `db:"color" json:"color"`
	Category    string `db:"category" json:"category"`
	Geometry    string `db:"geometry" json:"geometry"`
	ImageURL    string `db:"image_url" json:"imageUrl,omitempty"`
	ModelURL    string `db:"model_url" json:"modelUrl,omitempty"`
}

type Coupon struct {
	ID                 string `db:"id" json:"id"`
	BrandID            string `db:"brand_id" json:"brandId,omitempty"`
	Code               string `db:"code" json:"code"`
	DiscountPercentage int64  `db:"discount_percentage" json:"discountPercentage"`
}

type Campaign struct {
	ID          string `db:"id" json:"id"`
	BrandID     string `db:"brand_id" json:"brandId,omitempty"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Active      bool   `db:"active" json:"active"`
}

// VerificationStatus is the user's three one-way verification flags.
type VerificationStatus struct {
	EmailVerified bool `db:"ver_email" json:"isEmailVerified"`
	PhoneVerified bool `db:"ver_phone" json:"isPhoneVerified"`
	IDVerified    bool `db:"ver_id" json:"isIdVerified"`
}

// UserRow is the flat users table row. PasswordHash is a bcrypt digest;
// the plaintext never touches the store.
type UserRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Tokens       int64  `db:"tokens"`
	Cash         int64  `db:"cash"`
	VerEmail     bool   `db:"ver_email"`
	VerPhone     bool   `db:"ver_phone"`
	VerID        bool   `db:"ver_id"`
	AvatarURL    string `db:"avatar_url"`
}

// User is the assembled read model. Cart is never persisted: it lives in
// the UI session only, so every read returns it empty and callers must
// carry cart state themselves.
type User struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Tokens       int64              `json:"tokens"`
	Cash         int64              `json:"cash"`
	Cart         []Product          `json:"cart"`
	AvatarURL    string             `json:"avatarUrl,omitempty"`
	Verification VerificationStatus `json:"verification"`
	Orders       []Order            `json:"orders"`
}

// Order is immutable once created. Items is a denormalized snapshot of
// the purchased products; prices and descriptions are frozen at purchase
// time, not live references.
type Order struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Date      string    `db:"order_date" json:"date"`
	Total     int64     `db:"order_total" json:"total"`
	Items     []Product `json:"items"`
	CreatedAt string    `db:"created_at" json:"-"`
}

// ActivityFeedItem is a recent order joined with its buyer.
type ActivityFeedItem struct {
	OrderID   string    `db:"id" json:"orderId"`
	Username  string    `db:"username" json:"username"`
	AvatarURL string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	Total     int64     `db:"order_total" json:"total"`
	Date      string    `db:"order_date" json:"date"`
	Items     []Product `json:"items"`
}

// Comment carries a snapshot of the author's username and avatar at the
// time of posting. Later avatar changes do not rewrite history.
type Comment struct {
	ID        string `db:"id" json:"id"`
	BrandID   string `db:"brand_id" json:"brandId"`
	UserID    string `db:"user_id" json:"userId"`
	Username  string `db:"username" json:"username"`
	Text      string `db:"text" json:"text"`
	Timestamp string `db:"timestamp" json:"timestamp"`
	AvatarURL string `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt string `db:"created_at" json:"-"`
}

type GlobalComment struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	Username  string `db:"username" json:"username"`
	Text      string `db:"text" json:"text"`
	Timestamp string `db:"timestamp" json:"timestamp"`
	AvatarURL string `db:"avatar_url" json:"avatarUrl,omitempty"`
	CreatedAt string `db:"created_at" json:"-"`
}

// DesignConfig is the creator's material/geometry recipe, stored as an
// embedded JSON document on the user_designs row.
type DesignConfig struct {
	BaseColor  string  `json:"baseColor"`
	Roughness  float64 `json:"roughness"`
	Metalness  float64 `json:"metalness"`
	Geometry   string  `json:"geometry"`
	TextureURL string  `json:"textureUrl,omitempty"`
}

// UserDesign is a creator's product template. It starts FOR_SALE and
// transitions to SOLD exactly once, when a brand purchases it.
type UserDesign struct {
	ID          string       `db:"id" json:"id"`
	UserID      string       `db:"user_id" json:"userId"`
	Username    string       `db:"username" json:"username"`
	Name        string       `db:"name" json:"name"`
	Description string       `db:"description" json:"description"`
	Price       int64        `db:"price" json:"price"`
	Config      DesignConfig `json:"config"`
	Status      string       `db:"status" json:"status"`
	CreatedDate string       `db:"created_date" json:"createdDate"`
}
