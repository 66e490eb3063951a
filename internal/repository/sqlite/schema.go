package sqlite

import "github.com/sakif/coffee-finder/internal/model"

// schema is migration 1. The REFERENCES clauses are only enforced when the
// database is opened with Options.ForeignKeys.
const schema = `
CREATE TABLE coffee_shops (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	address     TEXT NOT NULL,
	lat         REAL NOT NULL,
	lon         REAL NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	is_admin      INTEGER NOT NULL DEFAULT 0,
	github_id     INTEGER UNIQUE,
	created_at    TEXT NOT NULL
);

CREATE TABLE favorites (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	cafe_id    INTEGER NOT NULL REFERENCES coffee_shops(id),
	created_at TEXT NOT NULL
);
CREATE INDEX idx_favorites_user_id ON favorites(user_id);

CREATE TABLE reviews (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	cafe_id    INTEGER NOT NULL REFERENCES coffee_shops(id),
	rating     INTEGER,
	comment    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX idx_reviews_cafe_id_created_at ON reviews(cafe_id, created_at);
`

// demoShops is migration 2's seed data.
var demoShops = []model.Shop{
	{Name: "Uncle's Brew", Address: "Plaza Margarita, Minglanilla", Lat: 10.2442, Lon: 123.7995, Description: "Trendy hangout spot with cold brew favorites", Link: "https://www.google.com/maps?q=10.2442,123.7995"},
	{Name: "Don Macchiato", Address: "Minglanilla Highway, near Gaisano Grand", Lat: 10.2429, Lon: 123.8008, Description: "Famous for strong brews and cozy setup", Link: "https://www.google.com/maps?q=10.2429,123.8008"},
	{Name: "Wander Cafe", Address: "Minglanilla Town Proper", Lat: 10.2445, Lon: 123.7988, Description: "Perfect for travelers and students, relaxing vibe", Link: "https://www.google.com/maps?q=10.2445,123.7988"},
	{Name: "Selah Cafe", Address: "Minglanilla Plaza Area", Lat: 10.2438, Lon: 123.7975, Description: "Chill place with artsy interior and nice coffee", Link: "https://www.google.com/maps?q=10.2438,123.7975"},
	{Name: "Links Cafe", Address: "Lipata, Minglanilla", Lat: 10.2460, Lon: 123.8032, Description: "Community-style cafe near schools", Link: "https://www.google.com/maps?q=10.2460,123.8032"},
	{Name: "Side Street Cafe", Address: "Behind Minglanilla Plaza", Lat: 10.2450, Lon: 123.8000, Description: "Quiet coffee corner with snacks", Link: "https://www.google.com/maps?q=10.2450,123.8000"},
	{Name: "Above Ground", Address: "Upper Tunghaan, Minglanilla", Lat: 10.2490, Lon: 123.8045, Description: "Hilltop cafe with overlooking view", Link: "https://www.google.com/maps?q=10.2490,123.8045"},
	{Name: "Teology", Address: "Minglanilla Town Proper", Lat: 10.2432, Lon: 123.7999, Description: "Creative tea and coffee blends in a relaxing atmosphere", Link: "https://www.google.com/maps?q=10.2432,123.7999"},
	{Name: "A Little Tea", Address: "Minglanilla Highway", Lat: 10.2449, Lon: 123.8012, Description: "Refreshing milk teas and cozy hangout place", Link: "https://www.google.com/maps?q=10.2449,123.8012"},
}

// DemoShops returns a copy of the seeded shops, in insertion order.
func DemoShops() []model.Shop {
	out := make([]model.Shop, len(demoShops))
	copy(out, demoShops)
	return out
}
