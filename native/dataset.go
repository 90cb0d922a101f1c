package native

import "sort"

// Dataset is a string-keyed view over an element's data-* attributes.
// Keys use the camelCase form the host exposes.
type Dataset struct {
	obj Object
}

// DatasetOf returns a view over o without checking it.
func DatasetOf(o Object) Dataset { return Dataset{obj: o} }

func (d Dataset) Native() Object { return d.obj }

// Get returns the value stored under key, absent when there is none.
// Only own properties count, never those inherited from Object.prototype.
func (d Dataset) Get(key string) Optional[string] {
	if !d.obj.HasOwn(key) {
		return None[string]()
	}
	s := d.obj.NullString(key)
	if !s.Valid {
		return None[string]()
	}
	return Some(s.String)
}

func (d Dataset) Set(key, value string) error {
	return d.obj.Set(key, value)
}

func (d Dataset) Delete(key string) error {
	return d.obj.Delete(key)
}

// Keys returns the keys in sorted order.
func (d Dataset) Keys() []string {
	keys := d.obj.Keys()
	sort.Strings(keys)
	return keys
}
