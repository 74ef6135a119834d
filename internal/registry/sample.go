package registry

// SampleCameras возвращает встроенный набор камер дашборда
func SampleCameras() []CameraRecord {
	return []CameraRecord{
		{
			ID:           1,
			Name:         "中山路与解放路交叉口",
			Status:       StatusOnline,
			Location:     "中山路128号",
			FloodLevel:   FloodHigh,
			DeviceSerial: "D37384593",
			Analysis: Analysis{
				WaterDepth:         "25",
				WaterDepthChange:   "+5 cm",
				FloodRisk:          "严重内涝",
				RiskDescription:    "存在严重内涝风险，建议立即采取措施",
				TrafficStatus:      "中断",
				TrafficDescription: "道路已封闭，车辆无法通行",
				Rainfall:           "35",
			},
		},
		{
			ID:           2,
			Name:         "人民广场地下通道",
			Status:       StatusOnline,
			Location:     "人民广场南侧",
			FloodLevel:   FloodCritical,
			DeviceSerial: "D37384597",
			Analysis: Analysis{
				WaterDepth:         "45",
				WaterDepthChange:   "+12 cm",
				FloodRisk:          "紧急内涝",
				RiskDescription:    "紧急内涝情况，需要立即疏散",
				TrafficStatus:      "完全中断",
				TrafficDescription: "地下通道已完全淹没",
				Rainfall:           "42",
			},
		},
		{
			ID:         3,
			Name:       "滨江大道低洼路段",
			Status:     StatusOnline,
			Location:   "滨江大道45号",
			FloodLevel: FloodMedium,
			Analysis: Analysis{
				WaterDepth:         "18",
				WaterDepthChange:   "+3 cm",
				FloodRisk:          "中度内涝",
				RiskDescription:    "存在内涝风险，建议加强监控",
				TrafficStatus:      "缓慢",
				TrafficDescription: "部分车道受影响",
				Rainfall:           "28",
			},
		},
		{
			ID:       4,
			Name:     "城北立交桥下",
			Status:   StatusMaintenance,
			Location: "城北立交桥",
			Analysis: Analysis{
				WaterDepth:         "0",
				WaterDepthChange:   "0 cm",
				FloodRisk:          "无风险",
				RiskDescription:    "设备维护中，暂无数据",
				TrafficStatus:      "正常",
				TrafficDescription: "交通畅通",
				Rainfall:           "0",
			},
		},
		{
			ID:         5,
			Name:       "火车站南广场",
			Status:     StatusOnline,
			Location:   "火车站南出口",
			FloodLevel: FloodLow,
			Analysis: Analysis{
				WaterDepth:         "8",
				WaterDepthChange:   "+1 cm",
				FloodRisk:          "轻度内涝",
				RiskDescription:    "轻微积水，不影响交通",
				TrafficStatus:      "正常",
				TrafficDescription: "交通基本正常",
				Rainfall:           "15",
			},
		},
		{
			ID:       6,
			Name:     "市政府前路段",
			Status:   StatusOnline,
			Location: "市政府大门前",
			Analysis: Analysis{
				WaterDepth:         "3",
				WaterDepthChange:   "0 cm",
				FloodRisk:          "无风险",
				RiskDescription:    "无内涝风险",
				TrafficStatus:      "畅通",
				TrafficDescription: "交通畅通无阻",
				Rainfall:           "12",
			},
		},
		{
			ID:         7,
			Name:       "东湖隧道入口",
			Status:     StatusOffline,
			Location:   "东湖隧道东入口",
			FloodLevel: FloodHigh,
			Analysis: Analysis{
				WaterDepth:         "30",
				WaterDepthChange:   "+8 cm",
				FloodRisk:          "严重内涝",
				RiskDescription:    "存在严重内涝风险，设备离线",
				TrafficStatus:      "未知",
				TrafficDescription: "设备离线，无法获取交通信息",
				Rainfall:           "38",
			},
		},
		{
			ID:       8,
			Name:     "城西工业区主干道",
			Status:   StatusOnline,
			Location: "工业区大道88号",
			Analysis: Analysis{
				WaterDepth:         "5",
				WaterDepthChange:   "0 cm",
				FloodRisk:          "无风险",
				RiskDescription:    "无内涝风险",
				TrafficStatus:      "畅通",
				TrafficDescription: "交通畅通",
				Rainfall:           "10",
			},
		},
		{
			ID:         9,
			CamID:      "cam_phone",
			Name:       "信息工程大学（手机）",
			Status:     StatusOnline,
			Location:   "南京",
			FloodLevel: FloodMedium,
			// HLS и WS пока не подключены, работает только MJPEG с телефона
			Streams: &StreamSources{
				MJPEGURL: "http://10.51.215.219:4747/video",
				Thumb:    "http://10.51.215.219:4747/shot.jpg",
			},
			Analysis: Analysis{
				WaterDepth:         "45",
				WaterDepthChange:   "+12 cm",
				FloodRisk:          "紧急内涝",
				RiskDescription:    "紧急内涝情况，需要立即疏散",
				TrafficStatus:      "完全中断",
				TrafficDescription: "地下通道已完全淹没",
				Rainfall:           "42",
			},
		},
	}
}

const defaultSnapshot = "/assets/image/11.png"

// SampleMarkers возвращает встроенные маркеры карты
func SampleMarkers() []MapMarker {
	return []MapMarker{
		{ID: 101, CamID: "cam_net_demo", Name: "网络视频测试1", Lat: 23.47, Lng: 116.69, Status: StatusOnline,
			Streams: MarkerStreams{MP4: "/videos/video_1.mp4"}, Snapshot: defaultSnapshot},
		{ID: 102, CamID: "local_cam_2", Name: "本地视频2(模拟摄像头)", Lat: 23.36, Lng: 116.69, Status: StatusOnline,
			Streams: MarkerStreams{MP4: "videos/video_2.mp4"}, Snapshot: defaultSnapshot},
		{ID: 103, CamID: "cam_mjpeg_demo", Name: "网络视频测试3", Lat: 23.26, Lng: 116.44, Status: StatusOnline,
			Streams: MarkerStreams{MP4: "/videos/video_3.mp4"}, Snapshot: defaultSnapshot},
		{ID: 104, CamID: "cam_mjpeg_demo", Name: "网络视频测试4", Lat: 23.28, Lng: 116.67, Status: StatusOnline,
			Snapshot: defaultSnapshot},
		{ID: 105, CamID: "cam_mjpeg_demo", Name: "网络视频测试5", Lat: 23.63, Lng: 116.84, Status: StatusOnline,
			Snapshot: defaultSnapshot},
		{ID: 106, CamID: "cam_mjpeg_demo", Name: "网络视频测试6", Lat: 23.08, Lng: 116.39, Status: StatusOnline,
			Snapshot: defaultSnapshot},
	}
}
