// Package discovery finds RTI processes on the local network with mDNS/DNS-SD.
//
// An RTI advertises one service instance of type _hla-rti._tcp. Its TXT
// record carries:
//
//	v    protocol version ("major.minor")
//	fed  comma separated names of the federation executions it hosts
//
// Federates browse for the service and pick an RTI that speaks a compatible
// protocol version and, optionally, already hosts the federation they want
// to join.
package discovery
