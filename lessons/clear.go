package lessons

func init() {
	Register(Lesson{
		Name:  "clear",
		Title: "Hello Window",
		Order: 0,
	})
}
