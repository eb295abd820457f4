package keyvalue

// T is a key/value pair of context attached to diagnostics.
type T struct {
	Key   string
	Value string
}

// KV returns a new key value pair.
func KV(k, v string) T {
	return T{
		Key:   k,
		Value: v,
	}
}
