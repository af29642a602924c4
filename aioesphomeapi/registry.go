package aioesphomeapi

import "reflect"

// Requests maps the incoming wire message type id to the Go type used to
// decode it. It covers every message marked SOURCE_CLIENT or SOURCE_BOTH in
// the upstream schema.
var Requests = map[uint64]reflect.Type{
	1:  reflect.TypeOf(HelloRequest{}),
	3:  reflect.TypeOf(ConnectRequest{}),
	5:  reflect.TypeOf(DisconnectRequest{}),
	6:  reflect.TypeOf(DisconnectResponse{}), // SOURCE_BOTH
	7:  reflect.TypeOf(PingRequest{}),
	8:  reflect.TypeOf(PingResponse{}), // SOURCE_BOTH
	9:  reflect.TypeOf(DeviceInfoRequest{}),
	11: reflect.TypeOf(ListEntitiesRequest{}),
	20: reflect.TypeOf(SubscribeStatesRequest{}),
	28: reflect.TypeOf(SubscribeLogsRequest{}),
	30: reflect.TypeOf(CoverCommandRequest{}),
	31: reflect.TypeOf(FanCommandRequest{}),
	32: reflect.TypeOf(LightCommandRequest{}),
	33: reflect.TypeOf(SwitchCommandRequest{}),
	34: reflect.TypeOf(SubscribeHomeassistantServicesRequest{}),
	36: reflect.TypeOf(GetTimeRequest{}),
	37: reflect.TypeOf(GetTimeResponse{}), // SOURCE_BOTH
	38: reflect.TypeOf(SubscribeHomeAssistantStatesRequest{}),
	40: reflect.TypeOf(HomeAssistantStateResponse{}), // reverse of usual convention
	42: reflect.TypeOf(ExecuteServiceRequest{}),
	45: reflect.TypeOf(CameraImageRequest{}),
	48: reflect.TypeOf(ClimateCommandRequest{}),
	51: reflect.TypeOf(NumberCommandRequest{}),
}

// TypeID returns the wire message type id to use when sending msg, covering
// every message marked SOURCE_SERVER or SOURCE_BOTH. It returns 0, false for
// anything not in the registry.
func TypeID(msg interface{}) (uint64, bool) {
	switch msg.(type) {
	case *HelloResponse:
		return 2, true
	case *ConnectResponse:
		return 4, true
	case *DisconnectRequest: // SOURCE_BOTH
		return 5, true
	case *DisconnectResponse:
		return 6, true
	case *PingRequest: // SOURCE_BOTH
		return 7, true
	case *PingResponse:
		return 8, true
	case *DeviceInfoResponse:
		return 10, true
	case *ListEntitiesBinarySensorResponse:
		return 12, true
	case *ListEntitiesCoverResponse:
		return 13, true
	case *ListEntitiesFanResponse:
		return 14, true
	case *ListEntitiesLightResponse:
		return 15, true
	case *ListEntitiesSensorResponse:
		return 16, true
	case *ListEntitiesSwitchResponse:
		return 17, true
	case *ListEntitiesTextSensorResponse:
		return 18, true
	case *ListEntitiesDoneResponse:
		return 19, true
	case *BinarySensorStateResponse:
		return 21, true
	case *CoverStateResponse:
		return 22, true
	case *FanStateResponse:
		return 23, true
	case *LightStateResponse:
		return 24, true
	case *SensorStateResponse:
		return 25, true
	case *SwitchStateResponse:
		return 26, true
	case *TextSensorStateResponse:
		return 27, true
	case *SubscribeLogsResponse:
		return 29, true
	case *HomeassistantServiceResponse:
		return 35, true
	case *GetTimeRequest: // SOURCE_BOTH
		return 36, true
	case *GetTimeResponse:
		return 37, true
	case *SubscribeHomeAssistantStateResponse:
		return 39, true
	case *ListEntitiesServicesResponse:
		return 41, true
	case *ListEntitiesCameraResponse:
		return 43, true
	case *CameraImageResponse:
		return 44, true
	case *ListEntitiesClimateResponse:
		return 46, true
	case *ClimateStateResponse:
		return 47, true
	case *NumberStateResponse:
		return 50, true
	case *ListEntitiesNumberResponse:
		return 49, true
	default:
		return 0, false
	}
}
