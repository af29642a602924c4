package aioesphomeapi

// Log levels used by SubscribeLogsRequest/Response. Values match the
// upstream esphome log level enum and the device package's own
// LogNone..LogVeryVerbose constants.
const (
	LogLevelNone        = 0
	LogLevelError       = 1
	LogLevelWarn        = 2
	LogLevelInfo        = 3
	LogLevelConfig      = 4
	LogLevelDebug       = 5
	LogLevelVerbose     = 6
	LogLevelVeryVerbose = 7
)

// Light color-mode capability bits, matching upstream LightColorCapability.
const (
	ColorModeOnOff           = 1
	ColorModeBrightness      = 2
	ColorModeWhite           = 4
	ColorModeColorTemperature = 8
	ColorModeColdWarmWhite   = 16
	ColorModeRGB             = 32
	ColorModeRGBWhite        = 64
	ColorModeRGBColdWarmWhite = 128
	ColorModeRGBColorTemperature = 256
)

// Climate enums, matching upstream ClimateMode/ClimateFanMode/etc.
const (
	ClimateModeOff = iota
	ClimateModeHeatCool
	ClimateModeCool
	ClimateModeHeat
	ClimateModeFanOnly
	ClimateModeDry
	ClimateModeAuto
)

const (
	ClimateFanModeOn = iota
	ClimateFanModeOff
	ClimateFanModeAuto
	ClimateFanModeLow
	ClimateFanModeMedium
	ClimateFanModeHigh
	ClimateFanModeMiddle
	ClimateFanModeFocus
	ClimateFanModeDiffuse
	ClimateFanModeQuiet
)

const (
	ClimateSwingModeOff = iota
	ClimateSwingModeBoth
	ClimateSwingModeVertical
	ClimateSwingModeHorizontal
)

const (
	ClimateActionOff = iota
	_
	ClimateActionCooling
	ClimateActionHeating
	ClimateActionIdle
	ClimateActionDrying
	ClimateActionFan
)

const (
	ClimatePresetNone = iota
	ClimatePresetHome
	ClimatePresetAway
	ClimatePresetBoost
	ClimatePresetComfort
	ClimatePresetEco
	ClimatePresetSleep
	ClimatePresetActivity
)

// --- handshake & connection lifecycle ---

type HelloRequest struct {
	ClientInfo      string `pb:"1,string"`
	ApiVersionMajor uint32 `pb:"2,varint"`
	ApiVersionMinor uint32 `pb:"3,varint"`
}

type HelloResponse struct {
	ApiVersionMajor uint32 `pb:"1,varint"`
	ApiVersionMinor uint32 `pb:"2,varint"`
	ServerInfo      string `pb:"3,string"`
	Name            string `pb:"4,string"`
}

type ConnectRequest struct {
	Password string `pb:"1,string"`
}

type ConnectResponse struct {
	InvalidPassword bool `pb:"1,varint"`
}

type DisconnectRequest struct{}

type DisconnectResponse struct{}

type PingRequest struct{}

type PingResponse struct{}

type GetTimeRequest struct{}

type GetTimeResponse struct {
	EpochSeconds uint32 `pb:"1,varint"`
}

type DeviceInfoRequest struct{}

type DeviceInfoResponse struct {
	UsesPassword     bool   `pb:"1,varint"`
	Name             string `pb:"2,string"`
	MacAddress       string `pb:"3,string"`
	EsphomeVersion   string `pb:"4,string"`
	CompilationTime  string `pb:"5,string"`
	Model            string `pb:"6,string"`
	HasDeepSleep     bool   `pb:"7,varint"`
	ProjectName      string `pb:"8,string"`
	ProjectVersion   string `pb:"9,string"`
	ManufacturerName string `pb:"10,string"`
	FriendlyName     string `pb:"11,string"`
}

type ListEntitiesRequest struct{}

type ListEntitiesDoneResponse struct{}

type SubscribeStatesRequest struct{}

type SubscribeLogsRequest struct {
	Level      uint32 `pb:"1,varint"`
	DumpConfig bool   `pb:"2,varint"`
}

type SubscribeLogsResponse struct {
	Level   uint32 `pb:"1,varint"`
	Message string `pb:"3,string"`
}

// --- entities the core supports ---

type ListEntitiesBinarySensorResponse struct {
	ObjectId       string `pb:"1,string"`
	Key            uint32 `pb:"2,varint"`
	Name           string `pb:"3,string"`
	UniqueId       string `pb:"4,string"`
	DeviceClass    string `pb:"5,string"`
	Icon           string `pb:"6,string"`
	EntityCategory uint32 `pb:"7,varint"`
}

type BinarySensorStateResponse struct {
	Key          uint32 `pb:"1,varint"`
	State        bool   `pb:"2,varint"`
	MissingState bool   `pb:"3,varint"`
}

type ListEntitiesSensorResponse struct {
	ObjectId          string `pb:"1,string"`
	Key               uint32 `pb:"2,varint"`
	Name              string `pb:"3,string"`
	UniqueId          string `pb:"4,string"`
	Icon              string `pb:"5,string"`
	UnitOfMeasurement string `pb:"6,string"`
	AccuracyDecimals  uint32 `pb:"7,varint"`
	DeviceClass       string `pb:"8,string"`
	StateClass        uint32 `pb:"9,varint"`
	EntityCategory    uint32 `pb:"10,varint"`
	ForceUpdate       bool   `pb:"11,varint"`
}

type SensorStateResponse struct {
	Key          uint32  `pb:"1,varint"`
	State        float32 `pb:"2,float"`
	MissingState bool    `pb:"3,varint"`
}

type ListEntitiesSwitchResponse struct {
	ObjectId       string `pb:"1,string"`
	Key            uint32 `pb:"2,varint"`
	Name           string `pb:"3,string"`
	UniqueId       string `pb:"4,string"`
	Icon           string `pb:"5,string"`
	AssumedState   bool   `pb:"6,varint"`
	DeviceClass    string `pb:"7,string"`
	EntityCategory uint32 `pb:"8,varint"`
}

type SwitchStateResponse struct {
	Key   uint32 `pb:"1,varint"`
	State bool   `pb:"2,varint"`
}

type SwitchCommandRequest struct {
	Key   uint32 `pb:"1,varint"`
	State bool   `pb:"2,varint"`
}

type ListEntitiesNumberResponse struct {
	ObjectId          string  `pb:"1,string"`
	Key               uint32  `pb:"2,varint"`
	Name              string  `pb:"3,string"`
	UniqueId          string  `pb:"4,string"`
	Icon              string  `pb:"5,string"`
	MinValue          float32 `pb:"6,float"`
	MaxValue          float32 `pb:"7,float"`
	Step              float32 `pb:"8,float"`
	UnitOfMeasurement string  `pb:"9,string"`
	Mode              uint32  `pb:"10,varint"`
	EntityCategory    uint32  `pb:"11,varint"`
}

type NumberStateResponse struct {
	Key          uint32  `pb:"1,varint"`
	State        float32 `pb:"2,float"`
	MissingState bool    `pb:"3,varint"`
}

type NumberCommandRequest struct {
	Key   uint32  `pb:"1,varint"`
	State float32 `pb:"2,float"`
}

type ListEntitiesLightResponse struct {
	ObjectId             string  `pb:"1,string"`
	Key                  uint32  `pb:"2,varint"`
	Name                 string  `pb:"3,string"`
	UniqueId             string  `pb:"4,string"`
	SupportedColorModes  []int32 `pb:"5,rep_varint"`
	Effects              []string `pb:"6,rep_string"`
	MinMireds            float32 `pb:"7,float"`
	MaxMireds            float32 `pb:"8,float"`
	EntityCategory       uint32  `pb:"9,varint"`
}

type LightStateResponse struct {
	Key              uint32  `pb:"1,varint"`
	State            bool    `pb:"2,varint"`
	Brightness       float32 `pb:"3,float"`
	ColorMode        int32   `pb:"4,varint"`
	ColorBrightness  float32 `pb:"5,float"`
	Red              float32 `pb:"6,float"`
	Green            float32 `pb:"7,float"`
	Blue             float32 `pb:"8,float"`
	White            float32 `pb:"9,float"`
	ColorTemperature float32 `pb:"10,float"`
	ColdWhite        float32 `pb:"11,float"`
	WarmWhite        float32 `pb:"12,float"`
	Effect           string  `pb:"13,string"`
}

type LightCommandRequest struct {
	Key                     uint32  `pb:"1,varint"`
	HasState                bool    `pb:"2,varint"`
	State                   bool    `pb:"3,varint"`
	HasBrightness           bool    `pb:"4,varint"`
	Brightness              float32 `pb:"5,float"`
	HasRgb                  bool    `pb:"6,varint"`
	Red                     float32 `pb:"7,float"`
	Green                   float32 `pb:"8,float"`
	Blue                    float32 `pb:"9,float"`
	HasWhite                bool    `pb:"10,varint"`
	White                   float32 `pb:"11,float"`
	HasColorTemperature     bool    `pb:"12,varint"`
	ColorTemperature        float32 `pb:"13,float"`
	HasTransitionLength     bool    `pb:"14,varint"`
	TransitionLength        uint32  `pb:"15,varint"`
	HasFlashLength          bool    `pb:"16,varint"`
	FlashLength             uint32  `pb:"17,varint"`
	HasEffect               bool    `pb:"18,varint"`
	Effect                  string  `pb:"19,string"`
	HasColorBrightness      bool    `pb:"20,varint"`
	ColorBrightness         float32 `pb:"21,float"`
	HasColorMode            bool    `pb:"22,varint"`
	ColorMode               int32   `pb:"23,varint"`
	HasColdWhite            bool    `pb:"24,varint"`
	ColdWhite               float32 `pb:"25,float"`
	HasWarmWhite            bool    `pb:"26,varint"`
	WarmWhite               float32 `pb:"27,float"`
}

type ListEntitiesClimateResponse struct {
	ObjectId                          string   `pb:"1,string"`
	Key                               uint32   `pb:"2,varint"`
	Name                              string   `pb:"3,string"`
	UniqueId                          string   `pb:"4,string"`
	SupportsCurrentTemperature        bool     `pb:"5,varint"`
	SupportsTwoPointTargetTemperature bool     `pb:"6,varint"`
	SupportedModes                    []int32  `pb:"7,rep_varint"`
	VisualMinTemperature              float32  `pb:"8,float"`
	VisualMaxTemperature              float32  `pb:"9,float"`
	VisualTargetTemperatureStep       float32  `pb:"10,float"`
	SupportsAction                    bool     `pb:"11,varint"`
	SupportedFanModes                 []int32  `pb:"12,rep_varint"`
	SupportedSwingModes               []int32  `pb:"13,rep_varint"`
	SupportedCustomFanModes           []string `pb:"14,rep_string"`
	SupportedPresets                  []int32  `pb:"15,rep_varint"`
	SupportedCustomPresets            []string `pb:"16,rep_string"`
	SupportsCurrentHumidity           bool     `pb:"17,varint"`
	SupportsTargetHumidity            bool     `pb:"18,varint"`
}

type ClimateStateResponse struct {
	Key                  uint32  `pb:"1,varint"`
	Mode                 int32   `pb:"2,varint"`
	CurrentTemperature   float32 `pb:"3,float"`
	TargetTemperature    float32 `pb:"4,float"`
	TargetTemperatureLow float32 `pb:"5,float"`
	TargetTemperatureHigh float32 `pb:"6,float"`
	FanMode              int32   `pb:"7,varint"`
	SwingMode            int32   `pb:"8,varint"`
	CustomFanMode        string  `pb:"9,string"`
	Action               int32   `pb:"10,varint"`
	Preset               int32   `pb:"11,varint"`
	CustomPreset         string  `pb:"12,string"`
	CurrentHumidity      float32 `pb:"13,float"`
	TargetHumidity       float32 `pb:"14,float"`
}

type ClimateCommandRequest struct {
	Key                      uint32  `pb:"1,varint"`
	HasMode                  bool    `pb:"2,varint"`
	Mode                     int32   `pb:"3,varint"`
	HasTargetTemperature     bool    `pb:"4,varint"`
	TargetTemperature        float32 `pb:"5,float"`
	HasTargetTemperatureLow  bool    `pb:"6,varint"`
	TargetTemperatureLow     float32 `pb:"7,float"`
	HasTargetTemperatureHigh bool    `pb:"8,varint"`
	TargetTemperatureHigh    float32 `pb:"9,float"`
	HasFanMode               bool    `pb:"10,varint"`
	FanMode                  int32   `pb:"11,varint"`
	HasSwingMode             bool    `pb:"12,varint"`
	SwingMode                int32   `pb:"13,varint"`
	HasCustomFanMode         bool    `pb:"14,varint"`
	CustomFanMode            string  `pb:"15,string"`
	HasPreset                bool    `pb:"16,varint"`
	Preset                   int32   `pb:"17,varint"`
	HasCustomPreset          bool    `pb:"18,varint"`
	CustomPreset             string  `pb:"19,string"`
	HasTargetHumidity        bool    `pb:"20,varint"`
	TargetHumidity           float32 `pb:"21,float"`
}

// --- messages kept for wire forward-compatibility only: the registry
// recognizes them, so the requests among them decode and are published on
// the bus as client_request events, but no entity in this device implements
// cover/fan/camera/HA-service domains, so nothing replies to them. ---

type ListEntitiesServicesResponse struct {
	ObjectId string `pb:"1,string"`
	Key      uint32 `pb:"2,varint"`
	Name     string `pb:"3,string"`
}

type ListEntitiesCoverResponse struct {
	ObjectId string `pb:"1,string"`
	Key      uint32 `pb:"2,varint"`
	Name     string `pb:"3,string"`
}

type CoverStateResponse struct {
	Key uint32 `pb:"1,varint"`
}

type CoverCommandRequest struct {
	Key uint32 `pb:"1,varint"`
}

type ListEntitiesFanResponse struct {
	ObjectId string `pb:"1,string"`
	Key      uint32 `pb:"2,varint"`
	Name     string `pb:"3,string"`
}

type FanStateResponse struct {
	Key uint32 `pb:"1,varint"`
}

type FanCommandRequest struct {
	Key uint32 `pb:"1,varint"`
}

type ListEntitiesTextSensorResponse struct {
	ObjectId string `pb:"1,string"`
	Key      uint32 `pb:"2,varint"`
	Name     string `pb:"3,string"`
	UniqueId string `pb:"4,string"`
}

type TextSensorStateResponse struct {
	Key   uint32 `pb:"1,varint"`
	State string `pb:"2,string"`
}

type ListEntitiesCameraResponse struct {
	ObjectId string `pb:"1,string"`
	Key      uint32 `pb:"2,varint"`
	Name     string `pb:"3,string"`
}

type CameraImageRequest struct {
	Single bool `pb:"1,varint"`
	Stream bool `pb:"2,varint"`
}

type CameraImageResponse struct {
	Key   uint32 `pb:"1,varint"`
	Data  []byte `pb:"2,bytes"`
	Done  bool   `pb:"3,varint"`
}

type SubscribeHomeassistantServicesRequest struct{}

type HomeassistantServiceResponse struct {
	Service string `pb:"1,string"`
}

type ExecuteServiceRequest struct {
	Key uint32 `pb:"1,varint"`
}

type SubscribeHomeAssistantStatesRequest struct{}

type SubscribeHomeAssistantStateResponse struct {
	EntityId string `pb:"1,string"`
}

type HomeAssistantStateResponse struct {
	EntityId string `pb:"1,string"`
	State    string `pb:"2,string"`
}
