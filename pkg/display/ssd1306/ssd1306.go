// Package ssd1306 drives an SSD1306 OLED controller over a Linux I2C bus.
package ssd1306

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/oledmon/pkg/display"
)

// DefaultAddress is the 7-bit I2C address most 128x64 modules ship with.
const DefaultAddress = 0x3C

// DefaultDevice is the I2C bus exposed on the Jetson 40-pin header.
const DefaultDevice = "/dev/i2c-1"

const (
	controlCommand = 0x00
	controlData    = 0x40

	// maxChunk is the largest data payload sent per I2C transaction.
	maxChunk = 16
)

// Bus is a raw I2C transport bound to the panel's slave address. Each Write
// is one bus transaction.
type Bus interface {
	io.Writer
	io.Closer
}

// Panel implements display.Panel for a 128x64 SSD1306.
type Panel struct {
	bus    Bus
	width  int
	height int
	logger *logrus.Logger
}

// New wraps an already opened bus.
func New(bus Bus, width, height int, logger *logrus.Logger) *Panel {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	return &Panel{
		bus:    bus,
		width:  width,
		height: height,
		logger: logger,
	}
}

// initSequence returns the power-up command list for the panel height.
func (p *Panel) initSequence() []byte {
	comPins := byte(0x12)
	if p.height == 32 {
		comPins = 0x02
	}
	return []byte{
		0xAE,       // display off
		0xD5, 0x80, // clock divide ratio
		0xA8, byte(p.height - 1), // multiplex ratio
		0xD3, 0x00, // display offset
		0x40,       // start line 0
		0x8D, 0x14, // charge pump on
		0x20, 0x00, // horizontal addressing
		0xA1,       // segment remap
		0xC8,       // COM scan descending
		0xDA, comPins,
		0x81, 0xCF, // contrast
		0xD9, 0xF1, // precharge
		0xDB, 0x40, // VCOMH deselect
		0xA4, // resume from RAM
		0xA6, // normal, not inverted
		0xAF, // display on
	}
}

// Init sends the power-up sequence.
func (p *Panel) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.command(p.initSequence()...); err != nil {
		return fmt.Errorf("ssd1306 init: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"width":  p.width,
		"height": p.height,
	}).Debug("Panel initialized")
	return nil
}

// Flush writes the whole framebuffer to display RAM.
func (p *Panel) Flush(fb *display.Framebuffer) error {
	if fb.Width() != p.width || fb.Height() != p.height {
		return fmt.Errorf("ssd1306 flush: framebuffer is %dx%d, panel is %dx%d",
			fb.Width(), fb.Height(), p.width, p.height)
	}
	pages := byte((p.height+7)/8 - 1)
	if err := p.command(0x21, 0, byte(p.width-1), 0x22, 0, pages); err != nil {
		return fmt.Errorf("ssd1306 address window: %w", err)
	}

	data := fb.Bytes()
	frame := make([]byte, 0, maxChunk+1)
	for off := 0; off < len(data); off += maxChunk {
		end := off + maxChunk
		if end > len(data) {
			end = len(data)
		}
		frame = append(frame[:0], controlData)
		frame = append(frame, data[off:end]...)
		if _, err := p.bus.Write(frame); err != nil {
			return fmt.Errorf("ssd1306 data at offset %d: %w", off, err)
		}
	}
	return nil
}

// Close turns the display off and releases the bus.
func (p *Panel) Close() error {
	offErr := p.command(0xAE)
	if err := p.bus.Close(); err != nil {
		return err
	}
	return offErr
}

func (p *Panel) command(cmds ...byte) error {
	buf := make([]byte, 0, len(cmds)+1)
	buf = append(buf, controlCommand)
	buf = append(buf, cmds...)
	_, err := p.bus.Write(buf)
	return err
}
