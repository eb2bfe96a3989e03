package deploy

// SeedModels returns the demo model catalog, newest first.
func SeedModels() []Model {
	return []Model{
		{Name: "YOLOv8-nano.onnx", Size: "6.2 MB", Format: "ONNX", Uploaded: "Today"},
		{Name: "resnet50-quantized.tflite", Size: "12.8 MB", Format: "TFLite", Uploaded: "Yesterday"},
		{Name: "bert-tiny.pt", Size: "45.3 MB", Format: "PyTorch", Uploaded: "3 days ago"},
	}
}
