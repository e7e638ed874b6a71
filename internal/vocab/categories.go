package vocab

import "fmt"

// Category is a lesson topic shown on the home screen
type Category struct {
	ID          string `mapstructure:"id" json:"id"`
	Label       string `mapstructure:"label" json:"label"`
	Emoji       string `mapstructure:"emoji" json:"emoji"`
	PromptTopic string `mapstructure:"prompt_topic" json:"promptTopic"`
}

// DefaultCategories returns the built-in A1 topics
func DefaultCategories() []Category {
	return []Category{
		{ID: "basics_greetings", Label: "基礎問候 (Greetings)", Emoji: "👋", PromptTopic: "A1 level basic greetings: Hello, Good morning, Thank you, Yes, No. Absolute essentials."},
		{ID: "numbers_colors", Label: "數字與顏色 (Numbers)", Emoji: "🔢", PromptTopic: "A1 level numbers (1-100) and basic colors (red, blue, green, black, white)."},
		{ID: "family", Label: "家庭成員 (Family)", Emoji: "👨‍👩‍👧", PromptTopic: "A1 level family members: mother, father, sister, brother, baby, grandmother."},
		{ID: "daily_verbs", Label: "常用動詞 (Basic Verbs)", Emoji: "🏃", PromptTopic: "A1 level essential verbs: go, come, eat, drink, sleep, look, listen. Simple imperatives."},
		{ID: "food_drink", Label: "食物飲料 (Food)", Emoji: "🍎", PromptTopic: "A1 level basic food: water, bread, apple, tea, coffee, milk, sugar."},
		{ID: "home_objects", Label: "居家物品 (Home)", Emoji: "🏠", PromptTopic: "A1 level house vocabulary: door, window, table, chair, bed, room, house."},
		{ID: "clothing", Label: "衣服穿著 (Clothes)", Emoji: "👕", PromptTopic: "A1 level basic clothing: shirt, pants, shoes, hat, jacket, dress."},
		{ID: "body_parts", Label: "身體部位 (Body)", Emoji: "👀", PromptTopic: "A1 level basic body parts: head, eye, hand, foot, leg, mouth, nose."},
		{ID: "animals", Label: "常見動物 (Animals)", Emoji: "🐱", PromptTopic: "A1 level common animals: cat, dog, bird, fish, horse, chicken."},
		{ID: "time_calendar", Label: "時間日期 (Time)", Emoji: "📅", PromptTopic: "A1 level time basics: today, tomorrow, yesterday, morning, night, day, week."},
		{ID: "places_city", Label: "城市地點 (Places)", Emoji: "🏫", PromptTopic: "A1 level city places: school, park, hospital, shop, street, home, restaurant."},
		{ID: "transport", Label: "交通工具 (Transport)", Emoji: "🚌", PromptTopic: "A1 level basic transport: car, bus, taxi, train, plane, bicycle."},
		{ID: "adjectives_1", Label: "形容詞 I (Adjectives)", Emoji: "👍", PromptTopic: "A1 level basic opposites: big/small, hot/cold, good/bad, new/old."},
		{ID: "adjectives_2", Label: "形容詞 II (Emotions)", Emoji: "😊", PromptTopic: "A1 level simple feelings: happy, sad, tired, hungry, thirsty, beautiful."},
		{ID: "professions", Label: "職業工作 (Jobs)", Emoji: "👮", PromptTopic: "A1 level common jobs: teacher, doctor, student, driver, cook, police."},
		{ID: "nature", Label: "自然景觀 (Nature)", Emoji: "🌲", PromptTopic: "A1 level nature basics: sun, moon, tree, flower, water, rain, snow."},
		{ID: "questions", Label: "疑問詞 (Questions)", Emoji: "❓", PromptTopic: "A1 level question words: What? Who? Where? When? Why? How? How much?"},
		{ID: "pronouns", Label: "代名詞 (Pronouns)", Emoji: "👉", PromptTopic: "A1 level personal pronouns: I, you, he/she/it, we, they, my, your."},
		{ID: "conjunctions", Label: "連接詞 (Connectors)", Emoji: "🔗", PromptTopic: "A1 level very basic connectors: and (ve), but (ama), or (veya), because (çünkü)."},
		{ID: "emergency_a1", Label: "緊急求助 (Help)", Emoji: "🆘", PromptTopic: "A1 level emergency phrases: Help! Stop! Doctor! Police! I don't understand."},
	}
}

// ValidateCategories checks a configured category list
func ValidateCategories(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	seen := make(map[string]bool, len(categories))
	for i, c := range categories {
		if c.ID == "" {
			return fmt.Errorf("category %d has no id", i)
		}
		if c.PromptTopic == "" {
			return fmt.Errorf("category %q has no prompt topic", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate category id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// FindCategory looks up a category by id
func FindCategory(categories []Category, id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DisplayName returns the label, falling back to the id
func (c Category) DisplayName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}
