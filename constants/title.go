package constants

const Title = "TFTP read client (RFC 1350, octet mode)"
