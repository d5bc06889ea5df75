package domain

type Category struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Listing struct {
	ID          string  `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description string  `db:"description" json:"description"`
	CategoryID  string  `db:"category_id" json:"category_id"`
	Price       float64 `db:"price" json:"price"`
	Location    string  `db:"location" json:"location"`
	ImagesJSON  string  `db:"image_urls" json:"-"` // JSON array, ordered
	OwnerID     string  `db:"owner_id" json:"owner_id"`
	Status      string  `db:"status" json:"status"` // available | swapped | removed
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

type SwapRequest struct {
	ID          string `db:"id" json:"id"`
	ItemID      string `db:"item_id" json:"item_id"`
	RequesterID string `db:"requester_id" json:"requester_id"`
	OwnerID     string `db:"owner_id" json:"owner_id"`
	PickupAt    string `db:"pickup_at" json:"pickup_at"`
	Status      string `db:"status" json:"status"` // pending | accepted | declined
	CreatedAt   string `db:"created_at" json:"created_at"`
}
