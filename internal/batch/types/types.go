package types

type EnvironmentEntry struct {
	Name  string
	Value string
}

type Job struct {
	// Job definition name, optionally with a :revision suffix.
	Definition string

	// Job queue name.
	Queue string

	Name string

	// Container environment overrides, kept in submission order.
	Environment []EnvironmentEntry
}

type SubmittedJob struct {
	JobID   *string
	JobName *string
	JobArn  *string
}
