package token

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/bsv-blockchain/go-sdk/overlay"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
)

// IssueMarker is the reserved asset id signaling that an output creates a new
// asset. Once admitted, the asset is referred to by the outpoint of that output.
const IssueMarker = "ISSUE"

// MaxAmount is the largest token amount accepted by the codec. Producers on
// other stacks represent amounts as IEEE 754 doubles, so anything above 2^53-1
// would not survive a round trip.
const MaxAmount uint64 = 9007199254740991

// ErrNotTokenOutput is returned when a locking script does not follow the
// tagged token output layout. Callers are expected to treat it as "skip this
// output", never as a failure to propagate.
var ErrNotTokenOutput = errors.New("not-a-token-output")

// minSignatureLength is the shortest byte length the signature heuristic will
// ever classify as a signature.
const minSignatureLength = 40

// printableThreshold is the minimum fraction of printable characters required
// for an ambiguous third field to be kept as metadata.
const printableThreshold = 0.8

// Data holds the decoded fields of a token output.
type Data struct {
	// AssetID is the raw asset id field: either IssueMarker or an already
	// canonical "<txid>.<vout>" string. Use CanonicalAssetID to resolve it.
	AssetID string

	// Amount is the token amount, always in [1, MaxAmount].
	Amount uint64

	// Metadata is the optional opaque metadata field. The codec never
	// interprets its content.
	Metadata *string

	// Owner is the public key of the spending condition.
	Owner *ec.PublicKey
}

// Decode parses a tagged token output locking script. The expected layout is
// 2 to 4 pushed data fields, the OP_DROP/OP_2DROP opcodes discarding them, and
// a single-key spending condition:
//
//	<assetId> <amount> [metadata [signature]] OP_2DROP... <pubkey> OP_CHECKSIG
//
// With exactly 3 fields the last one is ambiguous and resolved with
// IsLikelySignature. Any deviation from the layout yields ErrNotTokenOutput.
func Decode(s *script.Script) (*Data, error) {
	if s == nil {
		return nil, ErrNotTokenOutput
	}
	chunks, err := script.DecodeScript(*s)
	if err != nil {
		return nil, ErrNotTokenOutput
	}

	fields := make([][]byte, 0, 4)
	pos := 0
	for ; pos < len(chunks); pos++ {
		if chunks[pos].Op > script.OpPUSHDATA4 {
			break
		}
		fields = append(fields, chunks[pos].Data)
	}
	if len(fields) < 2 || len(fields) > 4 {
		return nil, ErrNotTokenOutput
	}

	dropped := 0
	for ; pos < len(chunks) && dropped < len(fields); pos++ {
		switch chunks[pos].Op {
		case script.Op2DROP:
			dropped += 2
		case script.OpDROP:
			dropped++
		default:
			return nil, ErrNotTokenOutput
		}
	}
	if dropped != len(fields) {
		return nil, ErrNotTokenOutput
	}

	// What remains must be exactly the spending condition.
	if len(chunks)-pos != 2 ||
		chunks[pos].Op > script.OpPUSHDATA4 ||
		chunks[pos+1].Op != script.OpCHECKSIG {
		return nil, ErrNotTokenOutput
	}
	owner, err := ec.PublicKeyFromBytes(chunks[pos].Data)
	if err != nil {
		return nil, ErrNotTokenOutput
	}

	assetID := string(fields[0])
	if assetID == "" || !utf8.ValidString(assetID) {
		return nil, ErrNotTokenOutput
	}
	amount, err := parseAmount(fields[1])
	if err != nil {
		return nil, err
	}

	data := &Data{
		AssetID: assetID,
		Amount:  amount,
		Owner:   owner,
	}
	switch len(fields) {
	case 3:
		if !IsLikelySignature(fields[2]) {
			metadata := string(fields[2])
			data.Metadata = &metadata
		}
	case 4:
		// A fourth field is always a trailing signature appended by an
		// external signer, which makes the third unconditionally metadata.
		metadata := string(fields[2])
		data.Metadata = &metadata
	}
	return data, nil
}

// Lock encodes the token fields into a tagged output locking script owned by
// the given public key. The emitted script always carries 2 or 3 fields; the
// 4-field form only ever comes into existence when an external signer appends
// a field after the fact.
func (d *Data) Lock(owner *ec.PublicKey) (*script.Script, error) {
	if owner == nil {
		return nil, errors.New("missing owner key")
	}
	if d.AssetID == "" {
		return nil, errors.New("missing asset id")
	}
	if d.Amount < 1 || d.Amount > MaxAmount {
		return nil, errors.New("token amount out of range")
	}

	fields := [][]byte{
		[]byte(d.AssetID),
		[]byte(strconv.FormatUint(d.Amount, 10)),
	}
	if d.Metadata != nil {
		fields = append(fields, []byte(*d.Metadata))
	}

	s := &script.Script{}
	for _, field := range fields {
		if err := s.AppendPushData(field); err != nil {
			return nil, err
		}
	}
	remaining := len(fields)
	for remaining >= 2 {
		if err := s.AppendOpcodes(script.Op2DROP); err != nil {
			return nil, err
		}
		remaining -= 2
	}
	if remaining == 1 {
		if err := s.AppendOpcodes(script.OpDROP); err != nil {
			return nil, err
		}
	}
	if err := s.AppendPushData(owner.ToDER()); err != nil {
		return nil, err
	}
	if err := s.AppendOpcodes(script.OpCHECKSIG); err != nil {
		return nil, err
	}
	return s, nil
}

// CanonicalAssetID resolves the raw asset id field of a decoded output. An
// issuance marker canonicalizes to the outpoint at which the asset was issued;
// any other value is already canonical.
func CanonicalAssetID(raw string, source *overlay.Outpoint) string {
	if raw == IssueMarker {
		return source.String()
	}
	return raw
}

// IsLikelySignature classifies the ambiguous third field of a 3-field token
// output: some producers append a cryptographic signature after the token
// fields, which must not be mistaken for metadata. Short fields are never
// signatures; fields that are not valid UTF-8, or that are mostly
// non-printable once decoded, are. The classification is a deterministic
// best-effort tie-break, not an error condition, and it can misjudge short
// binary metadata or high-entropy text.
func IsLikelySignature(b []byte) bool {
	if len(b) < minSignatureLength {
		return false
	}
	if !utf8.Valid(b) {
		return true
	}
	var printable, total int
	for _, r := range string(b) {
		total++
		if (r >= 32 && r <= 126) || r == '\t' || r == '\n' || r == '\r' {
			printable++
		}
	}
	return float64(printable)/float64(total) < printableThreshold
}

func parseAmount(field []byte) (uint64, error) {
	raw := string(field)
	amount, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, ErrNotTokenOutput
	}
	// The amount must round-trip exactly: leading zeros, signs or any other
	// re-encoding drift disqualify the output.
	if strconv.FormatUint(amount, 10) != raw {
		return 0, ErrNotTokenOutput
	}
	if amount < 1 || amount > MaxAmount {
		return 0, ErrNotTokenOutput
	}
	return amount, nil
}
