package config

//nolint:lll // better readability
type CliArgs struct {
	LogLevel    string // sets the log level (zap log level values)
	LogFormat   string // text vs json
	LogFile     string // log file to write to
	LogConfig   string // yaml file with per logger levels
	Dataset     string // dataset file (yaml or json) providing the telemetry
	WampURL     string // url of a remote telemetry provider
	Realm       string // realm of the remote telemetry provider
	AuthID      string // authid for ticket authentication
	Ticket      string // ticket for the remote telemetry provider
	CacheFile   string // sqlite file used as telemetry cache (empty: no cache)
	Event       string // event name, overrides the name delivered by the source
	Drivers     []string
	LapOffset   int    // lap number minus offset gives the race lap
	MinLap      int    // first race lap to analyze (0: no limit)
	MaxLap      int    // last race lap to analyze (0: no limit)
	Stints      []int  // only use laps of these stints
	Minisectors int    // number of minisectors per lap
	Bucketing   string // nearest vs containment
	MaxFetchers int    // number of laps fetched concurrently
	Laps        []int  // race laps to render (empty: all)
	OutDir      string // directory for rendered images
	Format      string // png vs svg
	Size        int    // image width and height in pixels
	DPI         float64
	Details     bool   // render title and legend
}

var cliArgs = NewCliArgs()

func DefaultCliArgs() *CliArgs {
	return cliArgs
}

func NewCliArgs() *CliArgs {
	return &CliArgs{}
}
