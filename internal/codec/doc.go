// Package codec translates between the ir data model and the binary wire
// format.
//
// The wire format is protobuf framing with the field numbers of the IR
// schema. Decoding accepts numeric lists packed or unpacked, retains unknown
// fields of the major messages and finishes every message through its ir
// builder, so union, required-field and raw_data rules are enforced while
// decoding. A decode error is fatal: no partial entity is returned.
//
// Encoding writes fields in ascending field number, packs numeric lists and
// appends retained unknown fields, so Decode(Encode(x)) equals x.
package codec
