package resources

import "strings"

// PriceModel is the pluggable data-transmission pricing capability named in
// §3. Concrete cloud-provider pricing (only AWS is modeled here, matching
// the original corpus) implements this.
type PriceModel interface {
	// PriceToTransmit returns the USD cost of moving gigabytes of data from
	// srcZone to dstZone. An empty srcZone means "from the public
	// internet" (ingress, always free). An empty dstZone means "to the
	// public internet" (egress, billed at the provider's public rate).
	PriceToTransmit(srcZone, dstZone Zone, gigabytes float64) float64
}

// AWSPriceModel mirrors AWSResourceProvider.calculate_data_transmission_price:
// same zone is free, cross-AZ within the same region is billed at the
// intra-region rate, cross-region/egress is billed at the public rate,
// ingress from the internet is always free.
type AWSPriceModel struct {
	PricePerGB       float64 // egress to the internet / a different region
	PricePerGBRegion float64 // cross-AZ within the same region
}

// NewAWSPriceModel returns an AWSPriceModel with the rates observed in the
// reference corpus (egress $0.09/GB, intra-region $0.02/GB).
func NewAWSPriceModel() AWSPriceModel {
	return AWSPriceModel{PricePerGB: 0.09, PricePerGBRegion: 0.02}
}

// regionOf strips the trailing availability-zone letter from an AWS zone
// name: "us-east-1a" -> "us-east-1".
func regionOf(zone Zone) string {
	return strings.TrimRight(string(zone), "abcdefghijklmnopqrstuvwxyz")
}

// PriceToTransmit implements PriceModel.
func (m AWSPriceModel) PriceToTransmit(srcZone, dstZone Zone, gigabytes float64) float64 {
	switch {
	case srcZone != "" && dstZone == "":
		// Leaving the provider entirely (e.g. to the public internet).
		return m.PricePerGB * gigabytes
	case srcZone == "":
		// Arriving from the internet: ingress is free.
		return 0
	case srcZone == dstZone:
		return 0
	case regionOf(srcZone) == regionOf(dstZone):
		return m.PricePerGBRegion * gigabytes
	default:
		return m.PricePerGB * gigabytes
	}
}
