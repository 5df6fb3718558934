package seeder

// Defaults seeds the skill catalog only.
func Defaults() []Seeder {
	return []Seeder{SkillsSeeder{}}
}

// WithDemo adds a small staffing scenario on top of the defaults.
func WithDemo() []Seeder {
	return append(Defaults(), DemoSeeder{})
}
