package calculator

import (
	"math"
	"strconv"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/cespare/xxhash/v2"
)

// cacheKey genera una clave estable para (calculadora, inputs).
// Los inputs se recorren en orden alfabético, así que el orden del map no influye.
func cacheKey(calculatorID string, in domain.Values) string {
	d := xxhash.New()
	d.WriteString(calculatorID)
	var buf [8]byte
	for _, k := range in.Keys() {
		d.WriteString("\x00")
		d.WriteString(k)
		bits := math.Float64bits(in[k])
		for i := range buf {
			buf[i] = byte(bits >> (8 * i))
		}
		d.Write(buf[:])
	}
	return calculatorID + ":" + strconv.FormatUint(d.Sum64(), 16)
}
