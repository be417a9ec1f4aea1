package bridge

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/KevinKickass/StormBridge/internal/channels"
)

// Request is one decoded inbound exchange.
type Request struct {
	Numbers [channels.Size]float64
	Bools   [channels.Size]bool
	// Defaulted counts numeric parameters that were present but not numbers.
	Defaulted int
}

// Response is the outbound half of an exchange: num1..num32 as JSON numbers
// and bool1..bool32 as the strings "true"/"false".
type Response map[string]any

func numKey(i int) string  { return "num" + strconv.Itoa(i+1) }
func boolKey(i int) string { return "bool" + strconv.Itoa(i+1) }

// DecodeRequest reads num1..num32 and bool1..bool32 from a query.
// Missing or unparsable numbers are 0; booleans are true only for
// "true", "1" or "yes" in any case.
func DecodeRequest(query url.Values) Request {
	var req Request

	for i := 0; i < channels.Size; i++ {
		raw, present := lookup(query, numKey(i))
		if !present {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			req.Defaulted++
			continue
		}
		req.Numbers[i] = v
	}

	for i := 0; i < channels.Size; i++ {
		raw, present := lookup(query, boolKey(i))
		if !present {
			raw = "false"
		}
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			req.Bools[i] = true
		}
	}

	return req
}

func lookup(query url.Values, key string) (string, bool) {
	vs, ok := query[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// EncodeResponse builds the outbound payload from the output arrays.
// Non-finite numbers are sent as 0, see channels.Finite.
func EncodeResponse(nums [channels.Size]float64, bools [channels.Size]bool) Response {
	resp := make(Response, 2*channels.Size)
	for i := 0; i < channels.Size; i++ {
		resp[numKey(i)] = channels.Finite(nums[i])
		resp[boolKey(i)] = strconv.FormatBool(bools[i])
	}
	return resp
}

// Exchange is one round trip of the transport contract: the decoded query
// overwrites all inputs, then the current outputs are encoded.
func (b *Bridge) Exchange(query url.Values) (Request, Response) {
	req := DecodeRequest(query)
	b.bus.StoreInputs(req.Numbers, req.Bools)

	nums, bools := b.bus.Outputs()
	return req, EncodeResponse(nums, bools)
}
