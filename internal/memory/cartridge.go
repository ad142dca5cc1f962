package memory

import "fmt"

// Header offsets, per spec §6.
const (
	logoAddress           = 0x104
	logoLength            = 48
	titleAddress          = 0x134
	titleLength           = 16
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	headerChecksumAddress = 0x14D
)

// CartridgeType identifies the supported mapper configurations.
type CartridgeType uint8

const (
	CartridgeROMOnly         CartridgeType = 0x00
	CartridgeMBC1            CartridgeType = 0x01
	CartridgeMBC1RAM         CartridgeType = 0x02
	CartridgeMBC1RAMBattery  CartridgeType = 0x03
)

// nintendoLogo is the fixed 48-byte pattern every valid cartridge carries at
// 0x104..0x133; power_on rejects images that don't match it.
var nintendoLogo = [logoLength]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// CartridgeInvalidError is returned by NewCartridge when the image fails
// header validation (spec §7, kind 1: CartridgeInvalid).
type CartridgeInvalidError struct {
	Reason string
}

func (e *CartridgeInvalidError) Error() string {
	return fmt.Sprintf("cartridge invalid: %s", e.Reason)
}

// Cartridge holds a parsed ROM image's header metadata plus its raw bytes.
type Cartridge struct {
	data          []byte
	title         string
	cartType      CartridgeType
	romSizeCode   uint8
	ramBankCount  int
	hasBattery    bool
}

// NewCartridge parses and validates a cartridge image per spec §6: minimum
// size, logo match, header checksum, and a supported cartridge type.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) < 0x8000 {
		return nil, &CartridgeInvalidError{Reason: "image smaller than 32 KiB minimum"}
	}

	var logo [logoLength]byte
	copy(logo[:], data[logoAddress:logoAddress+logoLength])
	if logo != nintendoLogo {
		return nil, &CartridgeInvalidError{Reason: "Nintendo logo mismatch"}
	}

	if checksum := headerChecksum(data); checksum != data[headerChecksumAddress] {
		return nil, &CartridgeInvalidError{
			Reason: fmt.Sprintf("header checksum mismatch: computed 0x%02X, expected 0x%02X", checksum, data[headerChecksumAddress]),
		}
	}

	cartType := CartridgeType(data[cartridgeTypeAddress])
	switch cartType {
	case CartridgeROMOnly, CartridgeMBC1, CartridgeMBC1RAM, CartridgeMBC1RAMBattery:
	default:
		return nil, &CartridgeInvalidError{Reason: fmt.Sprintf("unsupported cartridge type 0x%02X", uint8(cartType))}
	}

	title := string(data[titleAddress : titleAddress+titleLength])
	for i, r := range title {
		if r == 0 {
			title = title[:i]
			break
		}
	}

	cart := &Cartridge{
		data:         make([]byte, len(data)),
		title:        title,
		cartType:     cartType,
		romSizeCode:  data[romSizeAddress],
		ramBankCount: ramBankCount(data[ramSizeAddress]),
		hasBattery:   cartType == CartridgeMBC1RAMBattery,
	}
	copy(cart.data, data)

	return cart, nil
}

// headerChecksum computes x=0; for each byte of 0x134..0x14C: x=x-byte-1.
// That's the real hardware algorithm, done a byte at a time the way the boot
// ROM actually checks it; over those 25 bytes it equals
// (-sum(bytes)-25)&0xFF.
func headerChecksum(data []byte) byte {
	var sum uint8
	for _, b := range data[titleAddress:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum
}

func ramBankCount(code uint8) int {
	switch code {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

// Title returns the cartridge's header title, trimmed at the first NUL.
func (c *Cartridge) Title() string {
	return c.title
}

// NewMBCController builds the MBC implementation matching this cartridge's
// declared type.
func (c *Cartridge) NewMBCController() MBC {
	switch c.cartType {
	case CartridgeROMOnly:
		return NewNoMBC(c.data)
	default:
		return NewMBC1(c.data, c.ramBankCount)
	}
}
