package gui

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed merhaba_256.png
var iconData []byte

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	return fyne.NewStaticResource("merhaba.png", iconData)
}
