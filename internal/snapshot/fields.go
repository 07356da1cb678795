package snapshot

type KeyKind int

const (
	KeyNumeric KeyKind = iota
	KeyString
)

// Key is a sort key extracted from a Record. Keys of different kinds are not
// mutually comparable.
type Key struct {
	Kind KeyKind
	Num  float64
	Str  string
}

func NumericKey(value float64) Key {
	return Key{Kind: KeyNumeric, Num: value}
}

func StringKey(value string) Key {
	return Key{Kind: KeyString, Str: value}
}

// Less assumes both keys share the same kind; callers verify kinds first.
func (k Key) Less(other Key) bool {
	if k.Kind == KeyString {
		return k.Str < other.Str
	}
	return k.Num < other.Num
}

type KeyFunc func(record *Record) Key

var fieldKeys = map[string]KeyFunc{
	"pid": func(r *Record) Key {
		return NumericKey(float64(r.Pid))
	},
	"name": func(r *Record) Key {
		return StringKey(r.Name)
	},
	"exe": func(r *Record) Key {
		return StringKey(r.Executable.ValueOrZero())
	},
	"cmdline": func(r *Record) Key {
		return StringKey(r.JoinedCommandLine())
	},
	"status": func(r *Record) Key {
		return StringKey(r.Status)
	},
	"username": func(r *Record) Key {
		return StringKey(r.Username.ValueOrZero())
	},
	"cpu_percent": func(r *Record) Key {
		return NumericKey(r.CPUPercent)
	},
	"memory_percent": func(r *Record) Key {
		return NumericKey(r.MemoryPercent)
	},
	"phys_mem": func(r *Record) Key {
		return NumericKey(float64(r.PhysicalMemory))
	},
}

// FieldKey resolves a sortable field name to its key extractor. Unknown names
// resolve to a constant zero key, so every record ties and input order wins.
func FieldKey(name string) (KeyFunc, bool) {
	keyFunc, known := fieldKeys[name]
	if !known {
		return func(*Record) Key { return NumericKey(0) }, false
	}
	return keyFunc, true
}
