package discovery

import (
	"fmt"
	"slices"
	"strings"

	"github.com/openlvc/portico-sub003/pkg/version"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeRTITXT creates the TXT record for an RTI. Federation names are sorted
// and dropped from the end once the record would exceed MaxTXTValueLen.
func EncodeRTITXT(info *RTIInfo) TXTRecordMap {
	txt := TXTRecordMap{TXTKeyVersion: info.Version}
	if txt[TXTKeyVersion] == "" {
		txt[TXTKeyVersion] = version.Current
	}

	names := slices.Clone(info.Federations)
	slices.Sort(names)
	budget := MaxTXTValueLen - len(TXTKeyFederations) - 1
	var kept []string
	size := 0
	for _, n := range names {
		if strings.Contains(n, ",") || n == "" {
			continue
		}
		add := len(n)
		if len(kept) > 0 {
			add++
		}
		if size+add > budget {
			break
		}
		kept = append(kept, n)
		size += add
	}
	if len(kept) > 0 {
		txt[TXTKeyFederations] = strings.Join(kept, ",")
	}
	return txt
}

// DecodeRTITXT parses the TXT record of an RTI.
func DecodeRTITXT(txt TXTRecordMap) (*RTIInfo, error) {
	v, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	if _, err := version.Parse(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTXTRecord, err)
	}

	info := &RTIInfo{Version: v}
	if feds := txt[TXTKeyFederations]; feds != "" {
		for _, f := range strings.Split(feds, ",") {
			if f = strings.TrimSpace(f); f != "" {
				info.Federations = append(info.Federations, f)
			}
		}
	}
	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if found {
			txt[k] = v
		} else if k != "" {
			txt[k] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
