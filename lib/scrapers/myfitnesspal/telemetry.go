package myfitnesspal

import (
	"diary-export/lib/restyutil"
	"diary-export/lib/telemetry"
)

var tracer = telemetry.Tracer("diary-export.lib.scrapers.myfitnesspal")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes clients created afterwards dump their
// http messages into out when debug logging is enabled.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
