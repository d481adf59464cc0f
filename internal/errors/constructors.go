package errors

import "fmt"

// StorageUnavailable reports a failed read or write against a storage key.
func StorageUnavailable(op, key string, err error) *TadaError {
	return Wrap(err, ErrCodeStorageUnavailable, fmt.Sprintf("storage %s failed for key %q", op, key)).
		WithDetail("op", op).
		WithDetail("key", key)
}

// StorageMalformed reports a stored payload that could not be decoded.
func StorageMalformed(key string, err error) *TadaError {
	return Wrap(err, ErrCodeStorageMalformed, fmt.Sprintf("malformed payload under key %q", key)).
		WithDetail("key", key)
}

// QuotaExceeded reports a write that would grow storage past its quota.
func QuotaExceeded(key string, need, quota int) *TadaError {
	return New(ErrCodeStorageQuotaExceeded,
		fmt.Sprintf("writing key %q needs %d bytes, quota is %d", key, need, quota)).
		WithDetail("key", key).
		WithDetail("need", need).
		WithDetail("quota", quota)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TadaError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidFilter reports an unknown visibility filter name.
func InvalidFilter(name string) *TadaError {
	return New(ErrCodeInvalidInput,
		fmt.Sprintf("unknown filter %q (want all, active or completed)", name)).
		WithDetail("filter", name)
}

// EmptyTitle reports a title that is blank after trimming.
func EmptyTitle() *TadaError {
	return New(ErrCodeInvalidInput, "title cannot be empty")
}

// TodoNotFound reports an id with no matching todo.
func TodoNotFound(id int) *TadaError {
	return New(ErrCodeNotFound, fmt.Sprintf("no todo with id %d", id)).
		WithDetail("id", id)
}
