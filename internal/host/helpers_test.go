package host

func strPtr(s string) *string { return &s }
