package client

import (
	"net/url"
	"strconv"

	"github.com/muurk/pixelcfg/internal/pixelconfig"
)

// Update is a partial configuration change. Only non-nil fields are sent.
//
// Example usage:
//
//	update := client.NewUpdate().
//	    SetName("Lobby Pixels").
//	    SetUniverse(3).
//	    SetColorOrder(pixelconfig.NeoGRB)
type Update struct {
	Name         *string
	Universe     *int
	ChannelStart *int
	PixelCount   *int
	PixelType    *int
	PixelColor   *int
	Gamma        *float64
}

// NewUpdate returns an empty update.
func NewUpdate() *Update {
	return &Update{}
}

// FullUpdate returns an update that sets every field to the values in cfg.
func FullUpdate(cfg pixelconfig.PixelConfig) *Update {
	return NewUpdate().
		SetName(cfg.Name).
		SetUniverse(cfg.Universe).
		SetChannelStart(cfg.ChannelStart).
		SetPixelCount(cfg.PixelCount).
		SetPixelType(cfg.PixelType).
		SetColorOrder(cfg.PixelColor).
		SetGamma(cfg.Gamma)
}

// SetName sets the device name.
func (u *Update) SetName(name string) *Update {
	u.Name = &name
	return u
}

// SetUniverse sets the DMX universe.
func (u *Update) SetUniverse(universe int) *Update {
	u.Universe = &universe
	return u
}

// SetChannelStart sets the first DMX channel.
func (u *Update) SetChannelStart(channel int) *Update {
	u.ChannelStart = &channel
	return u
}

// SetPixelCount sets the number of pixels.
func (u *Update) SetPixelCount(count int) *Update {
	u.PixelCount = &count
	return u
}

// SetPixelType sets the pixel protocol code.
func (u *Update) SetPixelType(code int) *Update {
	u.PixelType = &code
	return u
}

// SetColorOrder sets the color order code.
func (u *Update) SetColorOrder(code int) *Update {
	u.PixelColor = &code
	return u
}

// SetGamma sets the gamma exponent.
func (u *Update) SetGamma(gamma float64) *Update {
	u.Gamma = &gamma
	return u
}

// IsEmpty reports whether the update changes nothing.
func (u *Update) IsEmpty() bool {
	return len(u.ToQuery()) == 0
}

// ToQuery encodes the set fields as configuration page arguments.
func (u *Update) ToQuery() url.Values {
	q := url.Values{}
	if u.Name != nil {
		q.Set(pixelconfig.FieldDevName, *u.Name)
	}
	setInt := func(name string, v *int) {
		if v != nil {
			q.Set(name, strconv.Itoa(*v))
		}
	}
	setInt(pixelconfig.FieldUniverse, u.Universe)
	setInt(pixelconfig.FieldChannelStart, u.ChannelStart)
	setInt(pixelconfig.FieldPixelCount, u.PixelCount)
	setInt(pixelconfig.FieldPixelType, u.PixelType)
	setInt(pixelconfig.FieldPixelColor, u.PixelColor)
	if u.Gamma != nil {
		q.Set(pixelconfig.FieldGamma, pixelconfig.FormatGamma(*u.Gamma))
	}
	return q
}

// ApplyTo returns what a controller holding cfg stores after receiving u.
func (u *Update) ApplyTo(cfg pixelconfig.PixelConfig) pixelconfig.PixelConfig {
	pixelconfig.Fields.Apply(&cfg, pixelconfig.ParseArgs(u.ToQuery().Encode()))
	return cfg
}

// DiffUpdate returns an update holding only the fields where next differs
// from current.
func DiffUpdate(current, next pixelconfig.PixelConfig) *Update {
	u := NewUpdate()
	if next.Name != current.Name {
		u.SetName(next.Name)
	}
	if next.Universe != current.Universe {
		u.SetUniverse(next.Universe)
	}
	if next.ChannelStart != current.ChannelStart {
		u.SetChannelStart(next.ChannelStart)
	}
	if next.PixelCount != current.PixelCount {
		u.SetPixelCount(next.PixelCount)
	}
	if next.PixelType != current.PixelType {
		u.SetPixelType(next.PixelType)
	}
	if next.PixelColor != current.PixelColor {
		u.SetColorOrder(next.PixelColor)
	}
	if next.Gamma != current.Gamma {
		u.SetGamma(next.Gamma)
	}
	return u
}
