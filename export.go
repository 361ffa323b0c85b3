package cosmic

import (
	"fmt"
	"os"
	"time"
)

// ExportConfig configures the telemetry export of a session.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool                         // stamp the filename with the wall-clock start
	CSVAppend    func(st SessionState) string // custom export (do not include leading comma)
	CSVAppendHdr func() string                // header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(conf ExportConfig) *os.File {
	config := LoadConfig()
	filename := fmt.Sprintf("%s/flight-%s.csv", config.OutputDir, conf.Filename)
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/flight-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.OutputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Position in m, velocity in m/s, fuel in L, oxygen in %%.
tick,time,status,x,y,z,vx,vy,vz,speed,fuel,fuelBurned,oxygen,hull,lifeSupport`, time.Now().UTC()))
	if conf.CSVAppendHdr != nil {
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamStates consumes session states from the channel and writes them to
// the configured output until the channel closes. Run it in its own
// goroutine, feed it from the session publisher, and close the channel when
// the session returns.
func StreamStates(conf ExportConfig, stateChan <-chan SessionState) {
	if conf.IsUseless() {
		for range stateChan {
		}
		return
	}
	f := createCSVFile(conf)
	defer f.Close()
	for state := range stateChan {
		asTxt := fmt.Sprintf("%d,%.3f,%s,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%.3f,%.6f,%.3f,%.3f,%s",
			state.Tick, state.Time, state.Status,
			state.Position.X(), state.Position.Y(), state.Position.Z(),
			state.Velocity.X(), state.Velocity.Y(), state.Velocity.Z(),
			state.Speed, state.Fuel, state.FuelBurned, state.Oxygen, state.Hull, state.LifeSupport)
		if conf.CSVAppend != nil {
			asTxt += "," + conf.CSVAppend(state)
		}
		if _, err := f.WriteString("\n" + asTxt); err != nil {
			panic(err)
		}
	}
}
