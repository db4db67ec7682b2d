package export

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/encoding"
	"github.com/moov-io/iso8583/field"
	"github.com/moov-io/iso8583/padding"
	"github.com/moov-io/iso8583/prefix"

	"github.com/alovak/cardgen-playground/generator/models"
)

const (
	mtiAuthorizationRequest = "0100"
	processingCodePurchase  = "000000"
	zeroAmount              = "000000000000"
)

// authSpec is Spec87 with the fixed-length numeric fields we set left-padded
// with zeros, so zero values pack to their full width.
var authSpec = newAuthSpec()

func newAuthSpec() *iso8583.MessageSpec {
	fields := make(map[int]field.Field, len(iso8583.Spec87.Fields))
	for id, f := range iso8583.Spec87.Fields {
		fields[id] = f
	}
	numeric := func(length int, desc string) field.Field {
		return field.NewNumeric(&field.Spec{
			Length:      length,
			Description: desc,
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.Fixed,
			Pad:         padding.Left('0'),
		})
	}
	fields[3] = numeric(6, "Processing Code")
	fields[4] = numeric(12, "Transaction Amount")
	fields[11] = numeric(6, "Systems Trace Audit Number (STAN)")

	return &iso8583.MessageSpec{
		Name:   "ISO 8583 v1987 ASCII, zero-padded numerics",
		Fields: fields,
	}
}

// AuthorizationMessage builds a 0100 message for r. The CVV never goes on the wire.
func AuthorizationMessage(r models.Record, stan int) (*iso8583.Message, error) {
	msg := iso8583.NewMessage(authSpec)
	msg.MTI(mtiAuthorizationRequest)

	fields := []struct {
		id  int
		val string
	}{
		{2, r.Number},
		{3, processingCodePurchase},
		{4, zeroAmount},
		{11, fmt.Sprintf("%06d", stan%1000000)},
		{14, r.Expiry().YYMM()},
	}
	for _, f := range fields {
		if err := msg.Field(f.id, f.val); err != nil {
			return nil, fmt.Errorf("setting field %d: %w", f.id, err)
		}
	}
	return msg, nil
}

// writeISO8583 writes one hex-encoded packed message per line, STAN starting at 1.
func writeISO8583(w io.Writer, records []models.Record) error {
	for i, r := range records {
		msg, err := AuthorizationMessage(r, i+1)
		if err != nil {
			return err
		}
		packed, err := msg.Pack()
		if err != nil {
			return fmt.Errorf("packing message %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintln(w, hex.EncodeToString(packed)); err != nil {
			return err
		}
	}
	return nil
}
