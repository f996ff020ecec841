package mmap

// Mapping is an anonymous read-write memory mapping.
//
// Mappings live for the rest of the process; the allocator never hands
// backing memory back to the system.
type Mapping struct {
	data []byte
}

// MapAnon creates a zero-filled anonymous mapping of size bytes.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data}, nil
}

// Bytes returns the mapped memory.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	return osAdvise(m.data, pattern)
}
