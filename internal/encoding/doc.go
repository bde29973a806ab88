// Package encoding implements the primitive column codecs of the serialized
// block payload: length-prefixed identifier names, unsigned and zigzag varints,
// uvarint-prefixed strings and fixed 8-byte floats.
//
// Writer appends to a pooled buffer; Reader consumes a payload sequentially and
// reports errs.ErrTruncatedPayload instead of panicking on short input.
package encoding
