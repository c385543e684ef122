package domain

import "fmt"

// Icon identifies the symbol a protocol is rendered with. Only the names
// listed in knownIcons have a renderer.
type Icon string

const (
	IconBus           Icon = "Bus"
	IconTent          Icon = "Tent"
	IconUsers         Icon = "Users"
	IconFileText      Icon = "FileText"
	IconShield        Icon = "Shield"
	IconShieldCheck   Icon = "ShieldCheck"
	IconAlertTriangle Icon = "AlertTriangle"
	IconCalendar      Icon = "Calendar"
	IconBriefcase     Icon = "Briefcase"
	IconMapPin        Icon = "MapPin"
	IconHeart         Icon = "Heart"
	IconMusic         Icon = "Music"
	IconFlame         Icon = "Flame"
	IconCar           Icon = "Car"
)

// DefaultIcon is used when a protocol is created without an icon.
const DefaultIcon = IconFileText

var knownIcons = map[Icon]struct{}{
	IconBus: {}, IconTent: {}, IconUsers: {}, IconFileText: {}, IconShield: {},
	IconShieldCheck: {}, IconAlertTriangle: {}, IconCalendar: {}, IconBriefcase: {},
	IconMapPin: {}, IconHeart: {}, IconMusic: {}, IconFlame: {}, IconCar: {},
}

func (i Icon) Valid() bool {
	_, ok := knownIcons[i]
	return ok
}

// ParseIcon fails for names without a renderer instead of falling back silently.
func ParseIcon(name string) (Icon, error) {
	icon := Icon(name)
	if !icon.Valid() {
		return "", fmt.Errorf("%w: unknown icon %q", ErrValidation, name)
	}
	return icon, nil
}
