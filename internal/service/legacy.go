package service

// LegacyCommands are the command names the desktop shell has always invoked
var LegacyCommands = map[string]Alias{
	"open_folder": {
		Command: "filesystem.list",
		Params:  map[string]string{"folderPath": "path", "folder_path": "path"},
	},
	"get_file_content": {
		Command: "filesystem.read",
		Params:  map[string]string{"filePath": "path", "file_path": "path"},
	},
	"read_file": {Command: "filesystem.read_strict"},
	"write_file": {
		Command: "filesystem.write",
		Params:  map[string]string{"filePath": "path", "file_path": "path"},
	},
	"delete_file": {Command: "filesystem.delete"},
	"move_extension": {
		Command: "extensions.install",
		Params:  map[string]string{"directoryPath": "directory_path"},
	},
	"remove_extension_folder": {
		Command: "extensions.remove",
		Params:  map[string]string{"directoryName": "directory_name"},
	},
}

// RegisterLegacyCommands installs every entry of LegacyCommands
func RegisterLegacyCommands(r *Registry) error {
	for name, alias := range LegacyCommands {
		if err := r.Alias(name, alias); err != nil {
			return err
		}
	}
	return nil
}
